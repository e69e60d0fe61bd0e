package gcp

import (
	"context"
	"fmt"
	"sort"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"

	"github.com/yungbote/facefit-backend/internal/modules/facemetrics"
	"github.com/yungbote/facefit-backend/internal/pkg/ctxutil"
	"github.com/yungbote/facefit-backend/internal/pkg/logger"
)

// FaceDetector implements facemetrics.Detector on Cloud Vision FACE_DETECTION.
type FaceDetector struct {
	log     *logger.Logger
	client  *vision.ImageAnnotatorClient
	timeout time.Duration
}

func NewFaceDetector(log *logger.Logger) (*FaceDetector, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	client, err := vision.NewImageAnnotatorClient(context.Background(), ClientOptionsFromEnv()...)
	if err != nil {
		return nil, fmt.Errorf("vision client: %w", err)
	}
	return &FaceDetector{
		log:     log.With("service", "gcp.FaceDetector"),
		client:  client,
		timeout: 30 * time.Second,
	}, nil
}

func (d *FaceDetector) Close() error {
	if d == nil || d.client == nil {
		return nil
	}
	return d.client.Close()
}

func (d *FaceDetector) Detect(ctx context.Context, img []byte, width, height int) (facemetrics.LandmarkSet, error) {
	if len(img) == 0 {
		return facemetrics.LandmarkSet{}, facemetrics.ErrDecodeFailure
	}
	ctx, cancel := context.WithTimeout(ctxutil.Default(ctx), d.timeout)
	defer cancel()

	req := &visionpb.BatchAnnotateImagesRequest{Requests: []*visionpb.AnnotateImageRequest{{
		Image:    &visionpb.Image{Content: img},
		Features: []*visionpb.Feature{{Type: visionpb.Feature_FACE_DETECTION, MaxResults: 5}},
	}}}
	resp, err := d.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return facemetrics.LandmarkSet{}, fmt.Errorf("vision BatchAnnotateImages: %w", err)
	}
	if resp == nil || len(resp.Responses) == 0 || resp.Responses[0] == nil {
		return facemetrics.LandmarkSet{}, facemetrics.ErrNoFace
	}
	r0 := resp.Responses[0]
	if r0.Error != nil && r0.Error.Message != "" {
		// INVALID_ARGUMENT is what Vision answers for unreadable image bytes.
		if r0.Error.Code == 3 {
			return facemetrics.LandmarkSet{}, fmt.Errorf("%w: %s", facemetrics.ErrDecodeFailure, r0.Error.Message)
		}
		return facemetrics.LandmarkSet{}, fmt.Errorf("vision annotate error: %s", r0.Error.Message)
	}

	face := bestFace(r0.FaceAnnotations)
	if face == nil {
		return facemetrics.LandmarkSet{}, facemetrics.ErrNoFace
	}
	d.log.Debug("Face detected", "faces", len(r0.FaceAnnotations), "confidence", face.DetectionConfidence, "landmarks", len(face.Landmarks))
	return LandmarksFromFace(face, width, height)
}

func bestFace(faces []*visionpb.FaceAnnotation) *visionpb.FaceAnnotation {
	var best *visionpb.FaceAnnotation
	for _, f := range faces {
		if f == nil {
			continue
		}
		if best == nil || f.DetectionConfidence > best.DetectionConfidence {
			best = f
		}
	}
	return best
}

type lm = visionpb.FaceAnnotation_Landmark_Type

// LandmarksFromFace maps Vision's sparse landmarks onto the face-mesh slots the metrics read.
// Left/right pairs are assigned by image x so the "left" slot is always the image-left point.
// Every other Vision point (and the face bounding polygon) fills spare slots so bounds cover the face.
func LandmarksFromFace(face *visionpb.FaceAnnotation, width, height int) (facemetrics.LandmarkSet, error) {
	if width <= 0 || height <= 0 {
		return facemetrics.LandmarkSet{}, fmt.Errorf("%w: image size %dx%d", facemetrics.ErrDecodeFailure, width, height)
	}
	pos := make(map[lm]facemetrics.Point, len(face.GetLandmarks()))
	for _, l := range face.GetLandmarks() {
		p := l.GetPosition()
		if p == nil {
			continue
		}
		pos[l.GetType()] = facemetrics.Point{X: float64(p.X) / float64(width), Y: float64(p.Y) / float64(height)}
	}

	ls := facemetrics.NewSparseLandmarkSet(width, height)
	used := map[int]bool{}
	set := func(idx int, p facemetrics.Point) {
		ls.Points[idx] = p
		used[idx] = true
	}
	single := func(idx int, t lm) {
		if p, ok := pos[t]; ok {
			set(idx, p)
		}
	}
	pair := func(leftIdx, rightIdx int, a, b lm) {
		pa, okA := pos[a]
		pb, okB := pos[b]
		if !okA || !okB {
			return
		}
		if pa.X > pb.X {
			pa, pb = pb, pa
		}
		set(leftIdx, pa)
		set(rightIdx, pb)
	}

	single(facemetrics.NoseTip, visionpb.FaceAnnotation_Landmark_NOSE_TIP)
	single(facemetrics.Midline, visionpb.FaceAnnotation_Landmark_MIDPOINT_BETWEEN_EYES)
	single(facemetrics.Chin, visionpb.FaceAnnotation_Landmark_CHIN_GNATHION)
	pair(facemetrics.LeftJaw, facemetrics.RightJaw, visionpb.FaceAnnotation_Landmark_CHIN_LEFT_GONION, visionpb.FaceAnnotation_Landmark_CHIN_RIGHT_GONION)
	pair(facemetrics.LeftCheekOuter, facemetrics.RightCheekOuter, visionpb.FaceAnnotation_Landmark_LEFT_EAR_TRAGION, visionpb.FaceAnnotation_Landmark_RIGHT_EAR_TRAGION)
	pair(facemetrics.LeftCheekbone, facemetrics.RightCheekbone, visionpb.FaceAnnotation_Landmark_LEFT_CHEEK_CENTER, visionpb.FaceAnnotation_Landmark_RIGHT_CHEEK_CENTER)
	pair(facemetrics.LeftMouth, facemetrics.RightMouth, visionpb.FaceAnnotation_Landmark_MOUTH_LEFT, visionpb.FaceAnnotation_Landmark_MOUTH_RIGHT)

	// Eye corners: the two outermost by x are the outer corners, the middle two the inner ones.
	corners := make([]facemetrics.Point, 0, 4)
	for _, t := range []lm{
		visionpb.FaceAnnotation_Landmark_LEFT_EYE_LEFT_CORNER,
		visionpb.FaceAnnotation_Landmark_LEFT_EYE_RIGHT_CORNER,
		visionpb.FaceAnnotation_Landmark_RIGHT_EYE_LEFT_CORNER,
		visionpb.FaceAnnotation_Landmark_RIGHT_EYE_RIGHT_CORNER,
	} {
		if p, ok := pos[t]; ok {
			corners = append(corners, p)
		}
	}
	if len(corners) == 4 {
		sort.Slice(corners, func(i, j int) bool { return corners[i].X < corners[j].X })
		set(facemetrics.LeftEyeOuter, corners[0])
		set(facemetrics.LeftEyeInner, corners[1])
		set(facemetrics.RightEyeInner, corners[2])
		set(facemetrics.RightEyeOuter, corners[3])
	}

	extras := make([]facemetrics.Point, 0, len(face.GetLandmarks())+4)
	kinds := make([]int, 0, len(pos))
	for t := range pos {
		kinds = append(kinds, int(t))
	}
	sort.Ints(kinds)
	for _, t := range kinds {
		extras = append(extras, pos[lm(t)])
	}
	for _, v := range face.GetFdBoundingPoly().GetVertices() {
		extras = append(extras, facemetrics.Point{X: float64(v.GetX()) / float64(width), Y: float64(v.GetY()) / float64(height)})
	}
	slot := 0
	for _, p := range extras {
		for slot < facemetrics.MeshSize && used[slot] {
			slot++
		}
		if slot >= facemetrics.MeshSize {
			break
		}
		set(slot, p)
	}

	if err := ls.Validate(); err != nil {
		return facemetrics.LandmarkSet{}, err
	}
	return ls, nil
}
