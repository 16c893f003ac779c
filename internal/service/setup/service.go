// Package setup runs the one-time farm configuration flow and its options flow.
package setup

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/chickenfarm/internal/domain/models"
)

// Step is the state a setup flow ends in.
type Step string

const (
	StepAwaitingInput Step = "awaiting_input"
	StepCreated       Step = "created"
	StepAborted       Step = "aborted"
)

// Field error codes.
const (
	CodeInvalidFarmSize    = "invalid_farm_size"
	CodeInvalidChickenType = "invalid_chicken_type"
)

var (
	// ErrAlreadyConfigured is returned when a configuration already exists.
	ErrAlreadyConfigured = errors.New("farm already configured")

	// ErrNotConfigured is returned by the options flow before setup completed.
	ErrNotConfigured = errors.New("farm not configured")
)

// ValidationError maps input fields to error codes.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid farm configuration: " + strings.Join(parts, ", ")
}

// Input is the user-supplied farm configuration.
type Input struct {
	Name        string `json:"farm_name" yaml:"farm_name"`
	Size        string `json:"farm_size" yaml:"farm_size"`
	ChickenType string `json:"chicken_type" yaml:"chicken_type"`
}

// Form is what a flow step shows next.
type Form struct {
	Step         Step                 `json:"step"`
	Defaults     Input                `json:"defaults"`
	Sizes        []models.FarmSize    `json:"farm_sizes,omitempty"`
	ChickenTypes []models.ChickenType `json:"chicken_types,omitempty"`
	Errors       map[string]string    `json:"errors,omitempty"`
	Config       *models.FarmConfig   `json:"config,omitempty"`
}

// ConfigRepository persists the single farm configuration.
type ConfigRepository interface {
	LoadFarmConfig(ctx context.Context) (models.FarmConfig, bool, error)
	// CreateFarmConfig stores cfg only if no configuration exists yet. The
	// boolean is false when another configuration was already stored.
	CreateFarmConfig(ctx context.Context, cfg models.FarmConfig) (bool, error)
	SaveFarmConfig(ctx context.Context, cfg models.FarmConfig) error
}

// Service drives the setup and options flows.
type Service struct {
	repo   ConfigRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewService constructs a setup service.
func NewService(repo ConfigRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// Begin opens the setup form, or aborts when the farm is already configured.
func (s *Service) Begin(ctx context.Context) (Form, error) {
	existing, ok, err := s.repo.LoadFarmConfig(ctx)
	if err != nil {
		return Form{}, fmt.Errorf("load farm config: %w", err)
	}
	if ok {
		return Form{Step: StepAborted, Config: &existing}, nil
	}
	return newForm(defaultInput()), nil
}

// Submit validates and stores the first configuration. Invalid input keeps
// the flow in awaiting_input and returns a *ValidationError.
func (s *Service) Submit(ctx context.Context, in Input) (Form, error) {
	existing, ok, err := s.repo.LoadFarmConfig(ctx)
	if err != nil {
		return Form{}, fmt.Errorf("load farm config: %w", err)
	}
	if ok {
		return Form{Step: StepAborted, Config: &existing}, ErrAlreadyConfigured
	}

	cfg, err := s.validate(in)
	if err != nil {
		form := newForm(in)
		var verr *ValidationError
		if errors.As(err, &verr) {
			form.Errors = verr.Fields
		}
		return form, err
	}

	created, err := s.repo.CreateFarmConfig(ctx, cfg)
	if err != nil {
		return Form{}, fmt.Errorf("create farm config: %w", err)
	}
	if !created {
		return s.aborted(ctx)
	}
	s.logger.Info("farm configured",
		zap.String("farm_name", cfg.Name),
		zap.String("farm_size", string(cfg.Size)),
		zap.String("chicken_type", string(cfg.ChickenType)))

	return Form{Step: StepCreated, Config: &cfg}, nil
}

// aborted reports the configuration that won a concurrent Submit.
func (s *Service) aborted(ctx context.Context) (Form, error) {
	existing, ok, err := s.repo.LoadFarmConfig(ctx)
	if err != nil {
		return Form{}, fmt.Errorf("load farm config: %w", err)
	}
	if !ok {
		return Form{Step: StepAborted}, ErrAlreadyConfigured
	}
	return Form{Step: StepAborted, Config: &existing}, ErrAlreadyConfigured
}

// Import runs Submit for a configuration read from a file.
func (s *Service) Import(ctx context.Context, in Input) (Form, error) {
	s.logger.Debug("importing farm config", zap.String("farm_name", in.Name))
	return s.Submit(ctx, in)
}

// Options opens the options form with the stored configuration as defaults.
func (s *Service) Options(ctx context.Context) (Form, error) {
	existing, ok, err := s.repo.LoadFarmConfig(ctx)
	if err != nil {
		return Form{}, fmt.Errorf("load farm config: %w", err)
	}
	if !ok {
		return Form{}, ErrNotConfigured
	}
	form := newForm(Input{Name: existing.Name, Size: string(existing.Size), ChickenType: string(existing.ChickenType)})
	form.Config = &existing
	return form, nil
}

// SubmitOptions validates and overwrites the stored configuration.
func (s *Service) SubmitOptions(ctx context.Context, in Input) (Form, error) {
	if _, ok, err := s.repo.LoadFarmConfig(ctx); err != nil {
		return Form{}, fmt.Errorf("load farm config: %w", err)
	} else if !ok {
		return Form{}, ErrNotConfigured
	}

	cfg, err := s.validate(in)
	if err != nil {
		form := newForm(in)
		var verr *ValidationError
		if errors.As(err, &verr) {
			form.Errors = verr.Fields
		}
		return form, err
	}

	if err := s.repo.SaveFarmConfig(ctx, cfg); err != nil {
		return Form{}, fmt.Errorf("save farm config: %w", err)
	}
	s.logger.Info("farm options updated", zap.String("farm_name", cfg.Name))
	return Form{Step: StepCreated, Config: &cfg}, nil
}

// Current returns the stored configuration, if any.
func (s *Service) Current(ctx context.Context) (models.FarmConfig, bool, error) {
	return s.repo.LoadFarmConfig(ctx)
}

func (s *Service) validate(in Input) (models.FarmConfig, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = models.DefaultFarmName
	}
	size := models.FarmSize(strings.TrimSpace(in.Size))
	breed := models.ChickenType(strings.TrimSpace(in.ChickenType))

	fields := map[string]string{}
	if !size.Valid() {
		fields["farm_size"] = CodeInvalidFarmSize
	}
	if !breed.Valid() {
		fields["chicken_type"] = CodeInvalidChickenType
	}
	if len(fields) > 0 {
		return models.FarmConfig{}, &ValidationError{Fields: fields}
	}

	return models.FarmConfig{
		Name:        name,
		Size:        size,
		ChickenType: breed,
		UpdatedAt:   s.now().UTC(),
	}, nil
}

func defaultInput() Input {
	return Input{
		Name:        models.DefaultFarmName,
		Size:        string(models.DefaultFarmSize),
		ChickenType: string(models.DefaultChickenType),
	}
}

func newForm(defaults Input) Form {
	return Form{
		Step:         StepAwaitingInput,
		Defaults:     defaults,
		Sizes:        models.FarmSizes,
		ChickenTypes: models.ChickenTypes,
	}
}
