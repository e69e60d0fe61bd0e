package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/facefit-backend/internal/clients/gcp"
	"github.com/yungbote/facefit-backend/internal/data/aggregates"
	"github.com/yungbote/facefit-backend/internal/data/repos"
	types "github.com/yungbote/facefit-backend/internal/domain"
	"github.com/yungbote/facefit-backend/internal/modules/facemetrics"
	"github.com/yungbote/facefit-backend/internal/observability"
	"github.com/yungbote/facefit-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/facefit-backend/internal/pkg/errors"
	"github.com/yungbote/facefit-backend/internal/pkg/logger"
	"github.com/yungbote/facefit-backend/internal/pkg/pointers"
)

// ReasonProcessingError marks a scan that failed for a reason the user cannot fix by retaking.
const ReasonProcessingError facemetrics.Reason = "processing_error"

type ScanResult struct {
	Scan    *types.Scan          `json:"scan"`
	Status  types.ScanStatus     `json:"status"`
	Reason  facemetrics.Reason   `json:"reason,omitempty"`
	Message string               `json:"message,omitempty"`
	Metrics *facemetrics.Metrics `json:"metrics,omitempty"`
	Targets *facemetrics.Targets `json:"targets,omitempty"`
	PlanID  *uuid.UUID           `json:"plan_id,omitempty"`
}

type ScanService interface {
	// ProcessScan runs one capture through the pipeline. A rejected capture is a Failed
	// result, not an error; errors are reserved for processing failures.
	ProcessScan(ctx context.Context, userID uuid.UUID, image []byte) (*ScanResult, error)
	ListScans(ctx context.Context, userID uuid.UUID) ([]*types.Scan, error)
	GetScan(ctx context.Context, userID, scanID uuid.UUID) (*types.Scan, error)
}

type ScanServiceDeps struct {
	Log          *logger.Logger
	Tx           aggregates.TxRunner
	Scans        repos.ScanRepo
	Goals        repos.GoalRepo
	Detector     facemetrics.Detector
	Images       gcp.ScanImageStore
	Plans        PlanService
	Thresholds   facemetrics.QualityThresholds
	MaxImageSide int
}

type scanService struct {
	log          *logger.Logger
	tx           aggregates.TxRunner
	scans        repos.ScanRepo
	goals        repos.GoalRepo
	detector     facemetrics.Detector
	images       gcp.ScanImageStore
	plans        PlanService
	thresholds   facemetrics.QualityThresholds
	maxImageSide int
}

func NewScanService(deps ScanServiceDeps) ScanService {
	images := deps.Images
	if images == nil {
		images = gcp.NopScanImageStore{}
	}
	maxSide := deps.MaxImageSide
	if maxSide <= 0 {
		maxSide = facemetrics.DefaultMaxImageSide
	}
	thresholds := deps.Thresholds
	if thresholds == (facemetrics.QualityThresholds{}) {
		thresholds = facemetrics.DefaultQualityThresholds()
	}
	thresholds = thresholds.Normalized()
	return &scanService{
		log:          deps.Log.With("service", "ScanService"),
		tx:           deps.Tx,
		scans:        deps.Scans,
		goals:        deps.Goals,
		detector:     deps.Detector,
		images:       images,
		plans:        deps.Plans,
		thresholds:   thresholds,
		maxImageSide: maxSide,
	}
}

func (s *scanService) ProcessScan(ctx context.Context, userID uuid.UUID, image []byte) (res *ScanResult, err error) {
	ctx, span := startSpan(ctx, "ScanService.ProcessScan", userID)
	defer func() { endSpan(span, err) }()

	if userID == uuid.Nil {
		return nil, pkgerrors.ErrUnauthorized
	}
	if len(image) == 0 {
		return nil, fmt.Errorf("%w: image is required", pkgerrors.ErrInvalidArgument)
	}
	if s.detector == nil {
		return nil, fmt.Errorf("face detector not configured")
	}

	start := time.Now()
	defer func() {
		switch {
		case err != nil:
			observability.Current().ObserveScan(string(types.ScanStatusFailed), string(ReasonProcessingError), time.Since(start))
		case res != nil:
			observability.Current().ObserveScan(string(res.Status), string(res.Reason), time.Since(start))
		}
	}()

	var (
		scan     *types.Scan
		metrics  facemetrics.Metrics
		targets  facemetrics.Targets
		rejected *ScanResult
	)
	// The lock spans creation to commit, so a user's scans are stabilized strictly
	// in the order they were captured.
	err = s.tx.WithUserLock(ctx, "scan.complete", userID, func(ctx context.Context) error {
		scan = &types.Scan{UserID: userID, Status: types.ScanStatusPending}
		if err := s.scans.Create(dbctx.New(ctx), scan); err != nil {
			return fmt.Errorf("create scan: %w", err)
		}
		if err := s.setFields(ctx, scan, map[string]interface{}{"status": types.ScanStatusProcessing}); err != nil {
			return err
		}

		sig, raw, err := s.analyze(ctx, scan, image)
		if err != nil {
			rej := rejection(err)
			if rej == nil {
				return s.fail(ctx, scan, err)
			}
			s.log.Info("Scan rejected", "scan_id", scan.ID, "user_id", userID, "reason", rej.Reason)
			fields := map[string]interface{}{
				"status":          types.ScanStatusFailed,
				"failure_reason":  string(rej.Reason),
				"failure_message": rej.Message,
			}
			if sig != nil {
				fields["brightness"] = sig.Brightness
				fields["sharpness"] = sig.Sharpness
			}
			if err := s.setFields(ctx, scan, fields); err != nil {
				return err
			}
			rejected = &ScanResult{Scan: scan, Status: scan.Status, Reason: rej.Reason, Message: rej.Message}
			return nil
		}

		err = s.tx.InTx(ctx, func(dbc dbctx.Context) error {
			prev, err := s.scans.LatestCompleted(dbc, userID, scan.ID)
			if err != nil {
				return fmt.Errorf("load previous scan: %w", err)
			}
			var prevMetrics *facemetrics.Metrics
			if prev != nil {
				if prevMetrics = scanMetrics(prev); prevMetrics == nil {
					s.log.Warn("Previous completed scan has no metrics; treating as first scan", "scan_id", scan.ID, "previous_scan_id", prev.ID)
				}
			}
			metrics = facemetrics.Stabilize(raw, prevMetrics)

			fields := map[string]interface{}{
				"status":          types.ScanStatusCompleted,
				"jawline_angle":   metrics.JawlineAngle,
				"symmetry_score":  metrics.SymmetryScore,
				"puffiness_index": metrics.PuffinessIndex,
				"brightness":      sig.Brightness,
				"sharpness":       sig.Sharpness,
				"failure_reason":  "",
				"failure_message": "",
			}
			if err := s.scans.UpdateFields(dbc, scan.ID, fields); err != nil {
				return fmt.Errorf("complete scan: %w", err)
			}
			applyFields(scan, fields)

			targets = facemetrics.DeriveTargets(metrics)
			if err := s.goals.UpsertTargets(dbc, goalTargets(userID, targets)); err != nil {
				return fmt.Errorf("store targets: %w", err)
			}
			return nil
		})
		if err != nil {
			return s.fail(ctx, scan, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if rejected != nil {
		return rejected, nil
	}
	log := s.log.With("scan_id", scan.ID)

	res = &ScanResult{Scan: scan, Status: scan.Status, Metrics: &metrics, Targets: &targets}
	if s.plans != nil {
		plan, perr := s.plans.RebuildPlan(ctx, userID)
		if perr != nil {
			log.Error("Plan rebuild after scan failed", "user_id", userID, "error", perr)
		} else if plan != nil {
			res.PlanID = &plan.ID
		}
	}
	log.Info("Scan completed",
		"user_id", userID,
		"jawline_angle", metrics.JawlineAngle,
		"symmetry_score", metrics.SymmetryScore,
		"puffiness_index", metrics.PuffinessIndex,
	)
	return res, nil
}

// analyze decodes, measures, detects and gates. The returned signals are set whenever
// the image decoded, so rejected scans keep them for diagnostics.
func (s *scanService) analyze(ctx context.Context, scan *types.Scan, data []byte) (*facemetrics.Signals, facemetrics.Metrics, error) {
	img, format, err := facemetrics.DecodeImage(data)
	if err != nil {
		return nil, facemetrics.Metrics{}, err
	}

	if key, perr := s.images.Put(ctx, scan.UserID, scan.ID, format, data); perr != nil {
		s.log.Warn("Scan image archive failed", "scan_id", scan.ID, "error", perr)
	} else if key != "" {
		if uerr := s.setFields(ctx, scan, map[string]interface{}{"image_key": key}); uerr != nil {
			s.log.Warn("Scan image key not stored", "scan_id", scan.ID, "error", uerr)
		}
	}

	b := img.Bounds()
	sig := facemetrics.MeasureImage(facemetrics.Downscale(img, s.maxImageSide))

	ls, err := s.detector.Detect(ctx, data, b.Dx(), b.Dy())
	if err != nil {
		return &sig, facemetrics.Metrics{}, err
	}
	m, err := facemetrics.Analyze(sig, ls, s.thresholds)
	return &sig, m, err
}

// rejection maps capture and detection failures onto a user-facing reason, or nil.
func rejection(err error) *facemetrics.QualityError {
	var qerr *facemetrics.QualityError
	if errors.As(err, &qerr) {
		return qerr
	}
	if reason, msg, ok := facemetrics.DetectionReason(err); ok {
		return &facemetrics.QualityError{Reason: reason, Message: msg}
	}
	return nil
}

func (s *scanService) fail(ctx context.Context, scan *types.Scan, cause error) error {
	s.log.Error("Scan processing failed", "scan_id", scan.ID, "user_id", scan.UserID, "error", cause)
	fields := map[string]interface{}{
		"status":          types.ScanStatusFailed,
		"failure_reason":  string(ReasonProcessingError),
		"failure_message": cause.Error(),
	}
	if err := s.setFields(ctx, scan, fields); err != nil {
		s.log.Error("Could not mark scan failed", "scan_id", scan.ID, "error", err)
	}
	return fmt.Errorf("process scan: %w", cause)
}

func (s *scanService) setFields(ctx context.Context, scan *types.Scan, fields map[string]interface{}) error {
	if err := s.scans.UpdateFields(dbctx.New(ctx), scan.ID, fields); err != nil {
		return fmt.Errorf("update scan: %w", err)
	}
	applyFields(scan, fields)
	return nil
}

// applyFields mirrors a column update onto the in-memory row.
func applyFields(scan *types.Scan, fields map[string]interface{}) {
	for k, v := range fields {
		switch k {
		case "status":
			scan.Status = v.(types.ScanStatus)
		case "failure_reason":
			scan.FailureReason = v.(string)
		case "failure_message":
			scan.FailureMessage = v.(string)
		case "image_key":
			scan.ImageKey = v.(string)
		case "jawline_angle":
			scan.JawlineAngle = pointers.Float64(v.(float64))
		case "symmetry_score":
			scan.SymmetryScore = pointers.Float64(v.(float64))
		case "puffiness_index":
			scan.PuffinessIndex = pointers.Float64(v.(float64))
		case "brightness":
			scan.Brightness = pointers.Float64(v.(float64))
		case "sharpness":
			scan.Sharpness = pointers.Float64(v.(float64))
		}
	}
}

func (s *scanService) ListScans(ctx context.Context, userID uuid.UUID) ([]*types.Scan, error) {
	out, err := s.scans.ListByUser(dbctx.New(ctx), userID, "")
	if err != nil {
		return nil, fmt.Errorf("list scans: %w", err)
	}
	return out, nil
}

func (s *scanService) GetScan(ctx context.Context, userID, scanID uuid.UUID) (*types.Scan, error) {
	scan, err := s.scans.GetByUserAndID(dbctx.New(ctx), userID, scanID)
	if err != nil {
		return nil, fmt.Errorf("load scan: %w", err)
	}
	if scan == nil {
		return nil, pkgerrors.ErrNotFound
	}
	return scan, nil
}
