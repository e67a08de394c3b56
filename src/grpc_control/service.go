package grpc_control

import (
	"context"
	"errors"
	"strings"
	"sync"

	"macro-observer/src/analysis"
	"macro-observer/src/config"
	"macro-observer/src/data_source/dashboard"
	"macro-observer/src/helpers"
	"macro-observer/src/loader"
	"macro-observer/src/logger"
	"macro-observer/src/models"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ControlService implements DashboardControlServer on top of a LoadController.
type ControlService struct {
	Config     *config.Config
	ConfigPath string
	Controller *loader.LoadController
	Logger     *logger.Logger

	configMu sync.Mutex
}

// NewControlService creates a new instance of ControlService
func NewControlService(cfg *config.Config, cfgPath string, controller *loader.LoadController, log *logger.Logger) *ControlService {
	return &ControlService{
		Config:     cfg,
		ConfigPath: cfgPath,
		Controller: controller,
		Logger:     log,
	}
}

// -----------------------------------------------------------------------------

// Reload starts a load with the optional start_year, end_year and top_n
// fields. With persist=true the parameters become the configured defaults.
func (s *ControlService) Reload(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()
	params := models.MFetchParams{
		StartYear: intField(fields, "start_year"),
		EndYear:   intField(fields, "end_year"),
		TopN:      intField(fields, "top_n"),
	}
	if err := dashboard.ValidateParams(params); err != nil {
		return nil, toStatus(err)
	}

	id, err := s.Controller.Load(ctx, params)
	if err != nil {
		s.Logger.Warning("gRPC: Reload %d failed: %v", id, err)
		return nil, toStatus(err)
	}

	if fields["persist"].GetBoolValue() {
		if err := s.persistDefaults(params); err != nil {
			s.Logger.Error("gRPC: Failed to persist fetch defaults: %v", err)
			return nil, status.Errorf(codes.Internal, "load %d applied but config not saved: %v", id, err)
		}
	}

	s.Logger.Info("gRPC: Reload %d applied", id)
	return stateStruct(s.Controller.Snapshot())
}

// -----------------------------------------------------------------------------

func (s *ControlService) persistDefaults(p models.MFetchParams) error {
	if s.ConfigPath == "" {
		return nil
	}
	s.configMu.Lock()
	defer s.configMu.Unlock()

	if p.StartYear != 0 {
		s.Config.DataSource.StartYear = p.StartYear
	}
	if p.EndYear != 0 {
		s.Config.DataSource.EndYear = p.EndYear
	}
	if p.TopN != 0 {
		s.Config.DataSource.TopN = p.TopN
	}
	return s.Config.Save(s.ConfigPath)
}

// -----------------------------------------------------------------------------

func (s *ControlService) SortBy(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	field, err := analysis.ParseSortField(req.GetValue())
	if err != nil {
		return nil, toStatus(err)
	}
	return s.apply(analysis.SortBy{Field: field})
}

// -----------------------------------------------------------------------------

func (s *ControlService) GoToPage(ctx context.Context, req *wrapperspb.Int32Value) (*structpb.Struct, error) {
	return s.apply(analysis.GoToPage{Page: int(req.GetValue())})
}

// -----------------------------------------------------------------------------

func (s *ControlService) ToggleSelection(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	code := strings.ToUpper(strings.TrimSpace(req.GetValue()))
	if code == "" {
		return nil, status.Error(codes.InvalidArgument, "country code is required")
	}
	return s.apply(analysis.ToggleCountry{Code: code})
}

// -----------------------------------------------------------------------------

func (s *ControlService) ResetState(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return s.apply(analysis.Reset{})
}

// -----------------------------------------------------------------------------

func (s *ControlService) GetState(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return stateStruct(s.Controller.Snapshot())
}

// -----------------------------------------------------------------------------

func (s *ControlService) apply(action analysis.Action) (*structpb.Struct, error) {
	if _, err := s.Controller.Apply(action); err != nil {
		s.Logger.Debug("gRPC: %s rejected: %v", action.Name(), err)
		return nil, toStatus(err)
	}
	return stateStruct(s.Controller.Snapshot())
}

// -----------------------------------------------------------------------------
// Conversions
// -----------------------------------------------------------------------------

// toStatus maps domain errors to gRPC status codes.
func toStatus(err error) error {
	switch {
	case errors.Is(err, loader.ErrNotLoaded):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, loader.ErrStaleLoad):
		return status.Error(codes.Aborted, err.Error())
	case errors.Is(err, analysis.ErrUnknownField),
		errors.Is(err, analysis.ErrUnknownCountry),
		errors.Is(err, analysis.ErrUnknownAction),
		helpers.IsValidationError(err):
		return status.Error(codes.InvalidArgument, err.Error())
	case helpers.IsFetchError(err):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// -----------------------------------------------------------------------------

func intField(fields map[string]*structpb.Value, key string) int {
	v, ok := fields[key]
	if !ok {
		return 0
	}
	return int(v.GetNumberValue())
}

// -----------------------------------------------------------------------------

// stateStruct flattens a controller snapshot for the wire.
func stateStruct(snap loader.Snapshot) (*structpb.Struct, error) {
	out := map[string]interface{}{
		"load_id": float64(snap.Status.LoadID),
		"loading": snap.Status.Loading,
		"loaded":  snap.Loaded(),
	}
	if snap.Status.Error != "" {
		out["error"] = snap.Status.Error
	}
	if snap.Loaded() {
		selection := make([]interface{}, 0, snap.State.Selection.Len())
		for _, code := range snap.State.Selection.Codes() {
			selection = append(selection, code)
		}
		out["sort_field"] = string(snap.State.Sort.Field)
		out["sort_direction"] = string(snap.State.Sort.Direction)
		out["page"] = snap.State.Page
		out["total_pages"] = analysis.TotalPages(snap.Store.Len())
		out["countries"] = snap.Store.Len()
		out["selection"] = selection
		out["generated_at"] = snap.Store.GeneratedAt()
	}

	st, err := structpb.NewStruct(out)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode state: %v", err)
	}
	return st, nil
}
