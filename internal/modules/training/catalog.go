package training

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
)

type Category string

const (
	CategoryJawline   Category = "JAWLINE"
	CategorySymmetry  Category = "SYMMETRY"
	CategoryPuffiness Category = "PUFFINESS"
	CategoryGeneral   Category = "GENERAL"
)

var allCategories = []Category{CategoryJawline, CategoryPuffiness, CategorySymmetry, CategoryGeneral}

func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range allCategories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown exercise category %q", s)
}

// Exercise is the slice of a catalog entry the plan algorithms need.
type Exercise struct {
	ID                     uuid.UUID
	Name                   string
	Category               Category
	DefaultReps            int
	DefaultDurationSeconds int
	DefaultSets            int
}

func (e Exercise) IsTimed() bool {
	return e.DefaultDurationSeconds > 0
}

// Validate enforces the catalog load rule: exactly one of reps or duration is set.
func (e Exercise) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("exercise name is required")
	}
	if _, err := ParseCategory(string(e.Category)); err != nil {
		return err
	}
	if e.DefaultReps < 0 || e.DefaultDurationSeconds < 0 || e.DefaultSets < 0 {
		return fmt.Errorf("exercise %q: negative default load", e.Name)
	}
	if (e.DefaultReps > 0) == (e.DefaultDurationSeconds > 0) {
		return fmt.Errorf("exercise %q: exactly one of default reps or duration must be set", e.Name)
	}
	return nil
}

// Preferences are the user's three improvement wishes.
type Preferences struct {
	SharperJawline  bool `json:"sharper_jawline"`
	ReducePuffiness bool `json:"reduce_puffiness"`
	ImproveSymmetry bool `json:"improve_symmetry"`
}

func DefaultPreferences() Preferences {
	return Preferences{SharperJawline: true, ReducePuffiness: true, ImproveSymmetry: true}
}

// Categories lists the enabled categories in selection order, or GENERAL when none are enabled.
func (p Preferences) Categories() []Category {
	out := make([]Category, 0, 3)
	if p.SharperJawline {
		out = append(out, CategoryJawline)
	}
	if p.ReducePuffiness {
		out = append(out, CategoryPuffiness)
	}
	if p.ImproveSymmetry {
		out = append(out, CategorySymmetry)
	}
	if len(out) == 0 {
		out = append(out, CategoryGeneral)
	}
	return out
}

// Distribute splits total slots across n categories; the first total%n get one extra.
func Distribute(total, n int) []int {
	if n <= 0 {
		return nil
	}
	if total < 0 {
		total = 0
	}
	out := make([]int, n)
	base, extra := total/n, total%n
	for i := range out {
		out[i] = base
		if i < extra {
			out[i]++
		}
	}
	return out
}

func newRand(r *rand.Rand) *rand.Rand {
	if r != nil {
		return r
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
