package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yungbote/facefit-backend/internal/data/aggregates"
	"github.com/yungbote/facefit-backend/internal/data/repos"
	"github.com/yungbote/facefit-backend/internal/data/repos/testutil"
	"github.com/yungbote/facefit-backend/internal/modules/training"
	"github.com/yungbote/facefit-backend/internal/pkg/keylock"
)

func TestCatalogSeedIsIdempotent(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	rows, err := h.catalog.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 16)

	n, err := h.catalog.Seed(ctx)
	require.NoError(t, err)
	require.Zero(t, n)

	again, err := h.catalog.List(ctx)
	require.NoError(t, err)
	require.Len(t, again, 16)

	var finisher bool
	for _, ex := range rows {
		require.GreaterOrEqual(t, ex.DefaultSets, 1)
		require.NotEmpty(t, ex.Instructions)
		if ex.Name == training.DefaultFinisherName {
			finisher = true
		}
	}
	require.True(t, finisher)
}

func TestCatalogSeedRejectsInvalidSource(t *testing.T) {
	finisher := `
  - name: Lymphatic Drain Finisher
    target_metric: GENERAL
    default_duration_seconds: 45
`
	cases := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "unknown category",
			src:  "exercises:\n  - name: Nose Wiggle\n    target_metric: NOSE\n    default_reps: 5\n" + finisher,
			want: "unknown exercise category",
		},
		{
			name: "both loads",
			src:  "exercises:\n  - name: Chin Lifts\n    target_metric: JAWLINE\n    default_reps: 5\n    default_duration_seconds: 10\n" + finisher,
			want: "exactly one",
		},
		{
			name: "above ceiling",
			src:  "exercises:\n  - name: Chin Lifts\n    target_metric: JAWLINE\n    default_reps: 20\n" + finisher,
			want: "ceiling",
		},
		{
			name: "duplicate name",
			src:  "exercises:\n  - name: Chin Lifts\n    target_metric: JAWLINE\n    default_reps: 5\n  - name: chin lifts\n    target_metric: JAWLINE\n    default_reps: 6\n" + finisher,
			want: "duplicate",
		},
		{
			name: "missing finisher",
			src:  "exercises:\n  - name: Chin Lifts\n    target_metric: JAWLINE\n    default_reps: 5\n",
			want: "Lymphatic Drain Finisher",
		},
		{
			name: "malformed yaml",
			src:  "exercises: [",
			want: "decode exercise catalog",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db := testutil.SQLite(t)
			log := testutil.Logger(t)
			exRepo := repos.NewExerciseRepo(db, log)
			svc := NewCatalogService(log, aggregates.NewGormTxRunner(db, keylock.NewMemory(), log), exRepo, []byte(tc.src), training.Rules{}, "")

			_, err := svc.Seed(context.Background())
			require.Error(t, err)
			require.True(t, strings.Contains(err.Error(), tc.want), "error %q does not mention %q", err, tc.want)

			rows, err := svc.List(context.Background())
			require.NoError(t, err)
			require.Empty(t, rows)
		})
	}
}
