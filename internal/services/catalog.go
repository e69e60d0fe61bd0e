package services

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"

	"github.com/yungbote/facefit-backend/internal/data/aggregates"
	"github.com/yungbote/facefit-backend/internal/data/repos"
	types "github.com/yungbote/facefit-backend/internal/domain"
	"github.com/yungbote/facefit-backend/internal/modules/training"
	"github.com/yungbote/facefit-backend/internal/pkg/dbctx"
	"github.com/yungbote/facefit-backend/internal/pkg/logger"
)

//go:embed catalogdata/exercises.yaml
var defaultCatalogYAML []byte

type CatalogService interface {
	// Seed loads the bundled catalog into an empty exercise table and reports how many rows it wrote.
	Seed(ctx context.Context) (int, error)
	List(ctx context.Context) ([]*types.Exercise, error)
}

type catalogFile struct {
	Exercises []catalogEntry `yaml:"exercises"`
}

type catalogEntry struct {
	Name                   string   `yaml:"name"`
	TargetMetric           string   `yaml:"target_metric"`
	Description            string   `yaml:"description"`
	Instructions           []string `yaml:"instructions"`
	DefaultReps            int      `yaml:"default_reps"`
	DefaultDurationSeconds int      `yaml:"default_duration_seconds"`
	DefaultSets            int      `yaml:"default_sets"`
}

type catalogService struct {
	log       *logger.Logger
	tx        aggregates.TxRunner
	exercises repos.ExerciseRepo
	source    []byte
	rules     training.Rules
	finisher  string
}

// NewCatalogService seeds from source, or the bundled catalog when source is empty.
func NewCatalogService(log *logger.Logger, tx aggregates.TxRunner, exercises repos.ExerciseRepo, source []byte, rules training.Rules, finisher string) CatalogService {
	if len(source) == 0 {
		source = defaultCatalogYAML
	}
	if finisher == "" {
		finisher = training.DefaultFinisherName
	}
	rules = rules.Normalized()
	return &catalogService{
		log:       log.With("service", "CatalogService"),
		tx:        tx,
		exercises: exercises,
		source:    source,
		rules:     rules,
		finisher:  finisher,
	}
}

func (s *catalogService) Seed(ctx context.Context) (int, error) {
	rows, err := s.parse()
	if err != nil {
		return 0, err
	}
	written := 0
	err = s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		n, err := s.exercises.Count(dbc)
		if err != nil {
			return fmt.Errorf("count exercises: %w", err)
		}
		if n > 0 {
			return nil
		}
		if _, err := s.exercises.Create(dbc, rows); err != nil {
			return fmt.Errorf("insert exercises: %w", err)
		}
		written = len(rows)
		return nil
	})
	if err != nil {
		return 0, aggregates.Classify("catalog.seed", err)
	}
	if written > 0 {
		s.log.Info("Exercise catalog seeded", "exercises", written)
	} else {
		s.log.Debug("Exercise catalog already present; seed skipped")
	}
	return written, nil
}

// parse decodes and validates the catalog source.
func (s *catalogService) parse() ([]*types.Exercise, error) {
	var file catalogFile
	if err := yaml.Unmarshal(s.source, &file); err != nil {
		return nil, fmt.Errorf("decode exercise catalog: %w", err)
	}
	now := time.Now().UTC()
	seen := make(map[string]bool, len(file.Exercises))
	hasFinisher := false
	out := make([]*types.Exercise, 0, len(file.Exercises))
	for _, e := range file.Exercises {
		name := strings.TrimSpace(e.Name)
		cat, err := training.ParseCategory(e.TargetMetric)
		if err != nil {
			return nil, fmt.Errorf("exercise %q: %w", name, err)
		}
		ex := training.Exercise{
			Name:                   name,
			Category:               cat,
			DefaultReps:            e.DefaultReps,
			DefaultDurationSeconds: e.DefaultDurationSeconds,
			DefaultSets:            e.DefaultSets,
		}
		if err := ex.Validate(); err != nil {
			return nil, err
		}
		if ex.DefaultReps > s.rules.RepsCeiling || ex.DefaultDurationSeconds > s.rules.DurationCeiling {
			return nil, fmt.Errorf("exercise %q: default load above progression ceiling", name)
		}
		key := strings.ToLower(name)
		if seen[key] {
			return nil, fmt.Errorf("duplicate exercise name %q", name)
		}
		seen[key] = true
		if name == s.finisher {
			hasFinisher = true
		}

		instructions, err := json.Marshal(e.Instructions)
		if err != nil {
			return nil, fmt.Errorf("exercise %q instructions: %w", name, err)
		}
		out = append(out, &types.Exercise{
			Name:                   name,
			Description:            strings.TrimSpace(e.Description),
			Instructions:           datatypes.JSON(instructions),
			TargetMetric:           string(cat),
			DefaultReps:            e.DefaultReps,
			DefaultDurationSeconds: e.DefaultDurationSeconds,
			DefaultSets:            max(1, e.DefaultSets),
			CreatedAt:              now,
		})
	}
	if !hasFinisher {
		return nil, fmt.Errorf("exercise catalog has no %q entry", s.finisher)
	}
	return out, nil
}

func (s *catalogService) List(ctx context.Context) ([]*types.Exercise, error) {
	out, err := s.exercises.ListAll(dbctx.New(ctx))
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	return out, nil
}
