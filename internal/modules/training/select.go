package training

import (
	"math/rand/v2"

	"github.com/google/uuid"
)

const (
	DefaultPlanTotal    = 5
	DefaultFinisherName = "Lymphatic Drain Finisher"
)

type SelectOptions struct {
	// Total is the number of exercises drawn from the category buckets. The finisher is extra.
	Total    int
	Finisher string
	Rand     *rand.Rand
}

// Selection is one exercise of a freshly built plan with its starting load.
type Selection struct {
	Exercise        Exercise
	Reps            int
	DurationSeconds int
	Sets            int
	Position        int
}

// Select draws a deduplicated plan from the catalog. A sparse catalog yields fewer exercises, never an error.
func Select(catalog []Exercise, prefs Preferences, opts SelectOptions) []Selection {
	rnd := newRand(opts.Rand)
	total := opts.Total
	if total <= 0 {
		total = DefaultPlanTotal
	}

	buckets := buildBuckets(catalog, rnd)
	claimed := make(map[uuid.UUID]bool, total+1)
	picked := make([]Exercise, 0, total+1)

	draw := func(b *bucket, n int) {
		for n > 0 {
			ex, ok := b.next(claimed)
			if !ok {
				return
			}
			claimed[ex.ID] = true
			picked = append(picked, ex)
			n--
		}
	}

	cats := prefs.Categories()
	for i, slots := range Distribute(total, len(cats)) {
		draw(buckets[cats[i]], slots)
	}
	if short := total - len(picked); short > 0 {
		draw(buckets[CategoryGeneral], short)
	}

	finisher := opts.Finisher
	if finisher == "" {
		finisher = DefaultFinisherName
	}
	for _, ex := range catalog {
		if ex.Name == finisher {
			if !claimed[ex.ID] {
				claimed[ex.ID] = true
				picked = append(picked, ex)
			}
			break
		}
	}

	out := make([]Selection, 0, len(picked))
	for i, ex := range picked {
		reps, dur := initialLoad(ex)
		out = append(out, Selection{
			Exercise:        ex,
			Reps:            reps,
			DurationSeconds: dur,
			Sets:            ex.DefaultSets,
			Position:        i + 1,
		})
	}
	return out
}

func initialLoad(ex Exercise) (reps, durationSeconds int) {
	if ex.IsTimed() {
		return 0, ex.DefaultDurationSeconds
	}
	return max(0, ex.DefaultReps), 0
}

// bucket is a category's exercises, shuffled once and consumed through a cursor.
type bucket struct {
	items  []Exercise
	cursor int
}

func (b *bucket) next(claimed map[uuid.UUID]bool) (Exercise, bool) {
	if b == nil {
		return Exercise{}, false
	}
	for b.cursor < len(b.items) {
		ex := b.items[b.cursor]
		b.cursor++
		if !claimed[ex.ID] {
			return ex, true
		}
	}
	return Exercise{}, false
}

func buildBuckets(catalog []Exercise, rnd *rand.Rand) map[Category]*bucket {
	buckets := make(map[Category]*bucket, len(allCategories))
	for _, ex := range catalog {
		b := buckets[ex.Category]
		if b == nil {
			b = &bucket{}
			buckets[ex.Category] = b
		}
		b.items = append(b.items, ex)
	}
	// fixed iteration order keeps a seeded source reproducible
	for _, c := range allCategories {
		if b := buckets[c]; b != nil {
			rnd.Shuffle(len(b.items), func(i, j int) { b.items[i], b.items[j] = b.items[j], b.items[i] })
		}
	}
	return buckets
}
