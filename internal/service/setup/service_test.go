package setup

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/mamadbah2/chickenfarm/internal/domain/models"
)

type failingRepo struct{ err error }

func (f failingRepo) LoadFarmConfig(context.Context) (models.FarmConfig, bool, error) {
	return models.FarmConfig{}, false, f.err
}

func (f failingRepo) CreateFarmConfig(context.Context, models.FarmConfig) (bool, error) {
	return false, f.err
}

func (f failingRepo) SaveFarmConfig(context.Context, models.FarmConfig) error { return f.err }

// racingRepo reports no configuration on load, as if a concurrent Submit had
// not stored its configuration yet, then refuses the create.
type racingRepo struct {
	*MemoryRepository
	loads int
}

func (r *racingRepo) LoadFarmConfig(ctx context.Context) (models.FarmConfig, bool, error) {
	r.loads++
	if r.loads == 1 {
		return models.FarmConfig{}, false, nil
	}
	return r.MemoryRepository.LoadFarmConfig(ctx)
}

func newTestService() (*Service, *MemoryRepository) {
	repo := NewMemoryRepository()
	svc := NewService(repo, nil)
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc, repo
}

func TestBeginOffersDefaults(t *testing.T) {
	svc, _ := newTestService()

	form, err := svc.Begin(context.Background())
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	if form.Step != StepAwaitingInput {
		t.Errorf("Step = %s, want %s", form.Step, StepAwaitingInput)
	}
	want := Input{Name: "My Chicken Farm", Size: "Small", ChickenType: "Rhode Island Red"}
	if form.Defaults != want {
		t.Errorf("Defaults = %+v, want %+v", form.Defaults, want)
	}
	if len(form.Sizes) != 3 || len(form.ChickenTypes) != 3 {
		t.Errorf("options = %v / %v", form.Sizes, form.ChickenTypes)
	}
}

func TestSubmit(t *testing.T) {
	tests := []struct {
		name       string
		input      Input
		wantStep   Step
		wantErrors map[string]string
	}{
		{
			name:     "valid",
			input:    Input{Name: "Hillside", Size: "Medium", ChickenType: "Sussex"},
			wantStep: StepCreated,
		},
		{
			name:       "bad size",
			input:      Input{Name: "Hillside", Size: "Huge", ChickenType: "Sussex"},
			wantStep:   StepAwaitingInput,
			wantErrors: map[string]string{"farm_size": CodeInvalidFarmSize},
		},
		{
			name:       "bad size and breed",
			input:      Input{Name: "Hillside", Size: "small", ChickenType: "Leghorn"},
			wantStep:   StepAwaitingInput,
			wantErrors: map[string]string{"farm_size": CodeInvalidFarmSize, "chicken_type": CodeInvalidChickenType},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestService()

			form, err := svc.Submit(context.Background(), tt.input)
			if form.Step != tt.wantStep {
				t.Errorf("Step = %s, want %s", form.Step, tt.wantStep)
			}

			_, stored, _ := repo.LoadFarmConfig(context.Background())
			if tt.wantErrors == nil {
				if err != nil {
					t.Fatalf("Submit() error = %v", err)
				}
				if !stored || form.Config == nil || form.Config.Name != tt.input.Name {
					t.Errorf("config not persisted: %+v", form.Config)
				}
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Submit() error = %v, want *ValidationError", err)
			}
			if len(verr.Fields) != len(tt.wantErrors) {
				t.Errorf("Fields = %v, want %v", verr.Fields, tt.wantErrors)
			}
			for k, v := range tt.wantErrors {
				if verr.Fields[k] != v || form.Errors[k] != v {
					t.Errorf("error %s = %q, want %q", k, verr.Fields[k], v)
				}
			}
			if stored {
				t.Error("invalid input was persisted")
			}
		})
	}
}

func TestSubmitSingleInstance(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Submit(ctx, Input{Name: "First", Size: "Small", ChickenType: "Sussex"}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	form, err := svc.Submit(ctx, Input{Name: "Second", Size: "Large", ChickenType: "Sussex"})
	if !errors.Is(err, ErrAlreadyConfigured) {
		t.Fatalf("second Submit() error = %v, want ErrAlreadyConfigured", err)
	}
	if form.Step != StepAborted || form.Config.Name != "First" {
		t.Errorf("form = %+v, want aborted with first config", form)
	}

	begin, err := svc.Begin(ctx)
	if err != nil || begin.Step != StepAborted {
		t.Errorf("Begin() = %+v, %v; want aborted", begin, err)
	}
}

func TestSubmitLosesRaceToConcurrentSetup(t *testing.T) {
	repo := &racingRepo{MemoryRepository: NewMemoryRepository()}
	first := models.FarmConfig{Name: "First", Size: models.FarmSizeSmall, ChickenType: models.ChickenSussex}
	if created, err := repo.CreateFarmConfig(context.Background(), first); err != nil || !created {
		t.Fatalf("CreateFarmConfig() = %v, %v", created, err)
	}
	svc := NewService(repo, nil)

	form, err := svc.Submit(context.Background(), Input{Name: "Second", Size: "Large", ChickenType: "Sussex"})
	if !errors.Is(err, ErrAlreadyConfigured) {
		t.Fatalf("Submit() error = %v, want ErrAlreadyConfigured", err)
	}
	if form.Step != StepAborted || form.Config == nil || form.Config.Name != "First" {
		t.Errorf("form = %+v, want aborted with first config", form)
	}

	stored, _, _ := repo.MemoryRepository.LoadFarmConfig(context.Background())
	if stored.Name != "First" {
		t.Errorf("stored name = %q, want First kept", stored.Name)
	}
}

func TestConcurrentSubmitsCreateOnce(t *testing.T) {
	svc, repo := newTestService()
	inputs := []Input{
		{Name: "A", Size: "Small", ChickenType: "Sussex"},
		{Name: "B", Size: "Medium", ChickenType: "Sussex"},
		{Name: "C", Size: "Large", ChickenType: "Sussex"},
		{Name: "D", Size: "Small", ChickenType: "Plymouth Rock"},
	}

	var wg sync.WaitGroup
	results := make([]error, len(inputs))
	for i, in := range inputs {
		i, in := i, in
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, results[i] = svc.Submit(context.Background(), in)
		}()
	}
	wg.Wait()

	created := 0
	var winner string
	for i, err := range results {
		switch {
		case err == nil:
			created++
			winner = inputs[i].Name
		case !errors.Is(err, ErrAlreadyConfigured):
			t.Errorf("Submit(%s) error = %v", inputs[i].Name, err)
		}
	}
	if created != 1 {
		t.Fatalf("created %d configurations, want 1", created)
	}
	stored, _, _ := repo.LoadFarmConfig(context.Background())
	if stored.Name != winner {
		t.Errorf("stored %q, want winner %q", stored.Name, winner)
	}
}

func TestImportDefaultsName(t *testing.T) {
	svc, _ := newTestService()

	form, err := svc.Import(context.Background(), Input{Size: "Large", ChickenType: "Plymouth Rock"})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if form.Config.Name != models.DefaultFarmName {
		t.Errorf("Name = %q, want %q", form.Config.Name, models.DefaultFarmName)
	}
}

func TestOptionsFlow(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Options(ctx); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("Options() before setup error = %v, want ErrNotConfigured", err)
	}

	if _, err := svc.Submit(ctx, Input{Name: "Hillside", Size: "Small", ChickenType: "Sussex"}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	form, err := svc.Options(ctx)
	if err != nil {
		t.Fatalf("Options() error = %v", err)
	}
	if form.Defaults.Name != "Hillside" || form.Defaults.Size != "Small" {
		t.Errorf("Defaults = %+v, want current values", form.Defaults)
	}

	if _, err := svc.SubmitOptions(ctx, Input{Name: "Hillside", Size: "Giant", ChickenType: "Sussex"}); err == nil {
		t.Error("SubmitOptions() accepted an invalid size")
	}

	updated, err := svc.SubmitOptions(ctx, Input{Name: "Hillside", Size: "Large", ChickenType: "Plymouth Rock"})
	if err != nil {
		t.Fatalf("SubmitOptions() error = %v", err)
	}
	if updated.Config.Size != models.FarmSizeLarge {
		t.Errorf("Size = %s, want Large", updated.Config.Size)
	}

	current, ok, _ := svc.Current(ctx)
	if !ok || current.ChickenType != models.ChickenPlymouthRock {
		t.Errorf("Current() = %+v, want overwritten config", current)
	}
}

func TestRepositoryErrorsPropagate(t *testing.T) {
	boom := errors.New("connection refused")
	svc := NewService(failingRepo{err: boom}, nil)

	if _, err := svc.Begin(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Begin() error = %v, want wrapped repository error", err)
	}
}

func TestLoadImportFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "farm.yaml")
	content := "farm_name: Hillside Coop\nfarm_size: Medium\nchicken_type: Sussex\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	got, err := LoadImportFile(path)
	if err != nil {
		t.Fatalf("LoadImportFile() error = %v", err)
	}
	want := Input{Name: "Hillside Coop", Size: "Medium", ChickenType: "Sussex"}
	if got != want {
		t.Errorf("LoadImportFile() = %+v, want %+v", got, want)
	}

	if _, err := LoadImportFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("LoadImportFile() on missing file returned nil error")
	}
}
