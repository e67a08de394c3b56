package grpc_control

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"macro-observer/src/config"
	"macro-observer/src/helpers"
	"macro-observer/src/loader"
	"macro-observer/src/logger"
	"macro-observer/src/models"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

type stubSource struct {
	err    error
	params []models.MFetchParams
}

func (s *stubSource) Name() string { return "stub" }
func (s *stubSource) FetchDashboard(ctx context.Context, p models.MFetchParams) (*models.MDashboardBundle, error) {
	s.params = append(s.params, p)
	if s.err != nil {
		return nil, s.err
	}
	b := &models.MDashboardBundle{GeneratedAt: "2024-01-01"}
	for i, code := range []string{"USA", "CHN", "JPN"} {
		gdp := float64(30 - i)
		b.Countries = append(b.Countries, models.MCountryRecord{Code: code, Name: code, LatestGDP: &gdp})
	}
	return b, nil
}

func newClient(t *testing.T, src *stubSource, cfgPath string) *DashboardControlClient {
	t.Helper()
	cfg := &config.Config{MConfig: &models.MConfig{Name: "test", Host: "127.0.0.1", Port: 8000}}
	cfg.Storage.DBType = "sqlite"
	cfg.Storage.DBPath = "x.db"
	cfg.Network.RequestTimeout = 1
	cfg.DataSource.BaseURL = "http://example.test"
	log := logger.NewWriterLogger(io.Discard, logger.LevelDebug, "grpc-test")

	ctrl := loader.NewLoadController(cfg.MConfig, src, nil, log)
	svc := NewControlService(cfg, cfgPath, ctrl, log)

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	RegisterDashboardControlServer(srv, svc)
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	return NewDashboardControlClient(conn)
}

func code(err error) codes.Code { return status.Code(err) }

// -----------------------------------------------------------------------------

func TestActionsBeforeLoadFailPrecondition(t *testing.T) {
	c := newClient(t, &stubSource{}, "")
	ctx := context.Background()

	if _, err := c.SortBy(ctx, "name"); code(err) != codes.FailedPrecondition {
		t.Errorf("SortBy = %v", err)
	}
	st, err := c.GetState(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if st.Fields["loaded"].GetBoolValue() {
		t.Error("expected loaded=false")
	}
}

func TestReloadAndActions(t *testing.T) {
	src := &stubSource{}
	c := newClient(t, src, "")
	ctx := context.Background()

	req, _ := structpb.NewStruct(map[string]interface{}{"top_n": 10, "start_year": 2010})
	st, err := c.Reload(ctx, req)
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if st.Fields["countries"].GetNumberValue() != 3 || st.Fields["sort_field"].GetStringValue() != "gdp" {
		t.Fatalf("state = %v", st)
	}
	if p := src.params[0]; p.TopN != 10 || p.StartYear != 2010 {
		t.Errorf("params = %+v", p)
	}

	st, err = c.SortBy(ctx, "name")
	if err != nil || st.Fields["sort_direction"].GetStringValue() != "asc" {
		t.Fatalf("SortBy = %v, %v", st, err)
	}
	if _, err := c.SortBy(ctx, "colour"); code(err) != codes.InvalidArgument {
		t.Errorf("unknown field = %v", err)
	}

	st, err = c.GoToPage(ctx, 50)
	if err != nil || st.Fields["page"].GetNumberValue() != 1 {
		t.Errorf("GoToPage = %v, %v", st, err)
	}

	st, err = c.ToggleSelection(ctx, "jpn")
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range st.Fields["selection"].GetListValue().GetValues() {
		if v.GetStringValue() == "JPN" {
			t.Error("JPN still selected after toggle")
		}
	}
	if _, err := c.ToggleSelection(ctx, "ZZZ"); code(err) != codes.InvalidArgument {
		t.Errorf("unknown country = %v", err)
	}
	if _, err := c.ToggleSelection(ctx, " "); code(err) != codes.InvalidArgument {
		t.Errorf("empty code = %v", err)
	}

	st, err = c.ResetState(ctx)
	if err != nil || len(st.Fields["selection"].GetListValue().GetValues()) != 3 {
		t.Errorf("ResetState = %v, %v", st, err)
	}
}

func TestReloadErrorCodes(t *testing.T) {
	src := &stubSource{err: helpers.NewFetchError("fetch dashboard", errors.New("down"))}
	c := newClient(t, src, "")
	ctx := context.Background()

	if _, err := c.Reload(ctx, &structpb.Struct{}); code(err) != codes.Unavailable {
		t.Errorf("fetch failure = %v", err)
	}
	bad, _ := structpb.NewStruct(map[string]interface{}{"top_n": 1})
	if _, err := c.Reload(ctx, bad); code(err) != codes.InvalidArgument {
		t.Errorf("top_n=1 = %v", err)
	}
	if len(src.params) != 1 {
		t.Errorf("invalid params reached the source: %d calls", len(src.params))
	}
}

func TestReloadPersistsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	c := newClient(t, &stubSource{}, path)

	req, _ := structpb.NewStruct(map[string]interface{}{"top_n": 25, "persist": true})
	if _, err := c.Reload(context.Background(), req); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "top_n: 25") {
		t.Errorf("saved config:\n%s", data)
	}
}

func TestToStatus(t *testing.T) {
	if code(toStatus(loader.ErrStaleLoad)) != codes.Aborted {
		t.Error("stale load must map to Aborted")
	}
	if code(toStatus(errors.New("x"))) != codes.Internal {
		t.Error("unknown errors must map to Internal")
	}
}
