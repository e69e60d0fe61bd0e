package training

import (
	"fmt"

	"github.com/google/uuid"
)

func ex(name string, cat Category, reps, dur int) Exercise {
	return Exercise{
		ID:                     uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)),
		Name:                   name,
		Category:               cat,
		DefaultReps:            reps,
		DefaultDurationSeconds: dur,
		DefaultSets:            3,
	}
}

// catalogOf builds n rep-based exercises per listed category plus the finisher.
func catalogOf(perCategory map[Category]int) []Exercise {
	var out []Exercise
	for _, c := range allCategories {
		for i := 0; i < perCategory[c]; i++ {
			out = append(out, ex(fmt.Sprintf("%s-%d", c, i), c, 10, 0))
		}
	}
	return append(out, ex(DefaultFinisherName, CategoryGeneral, 0, 30))
}
