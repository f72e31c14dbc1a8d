package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ikkim/verification-backend/internal/app/domain"
	"github.com/ikkim/verification-backend/internal/cache"
	"github.com/ikkim/verification-backend/internal/metrics"
	"github.com/ikkim/verification-backend/internal/storage"
	"github.com/ikkim/verification-backend/pkg/logger"
)

const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

type SubmitImageInput struct {
	UserID      string
	ImageData   []byte
	ContentType string
	// ImageURL is set instead of ImageData when the client already uploaded
	// the file through a presigned URL.
	ImageURL string
}

type SubmitImageResult struct {
	Image   domain.VerificationImage
	Request domain.VerificationRequest
}

type ReviewInput struct {
	RequestID string
	Action    string
	AdminID   string
	Comment   string
}

// ListFilter selects requests by status or by owner. Status wins when both are set.
type ListFilter struct {
	Status string
	UserID string
}

// ImageFilter selects images by ID or by owner. ImageID wins when both are set.
type ImageFilter struct {
	ImageID string
	UserID  string
}

// RequestView is a request together with the URL of its image. ImageURL is
// empty when the image no longer resolves.
type RequestView struct {
	Request  domain.VerificationRequest
	ImageURL string
}

// Backlog summarizes the review queue.
type Backlog struct {
	Pending  int
	Stale    int
	ByStatus map[string]int64
}

type VerificationService interface {
	UploadImage(ctx context.Context, input SubmitImageInput) (domain.VerificationImage, error)
	SubmitImage(ctx context.Context, input SubmitImageInput) (*SubmitImageResult, error)
	CreateRequest(ctx context.Context, userID, imageID string) (domain.VerificationRequest, error)
	ReviewRequest(ctx context.Context, input ReviewInput) (domain.VerificationRequest, error)
	ListRequests(ctx context.Context, filter ListFilter) ([]RequestView, error)
	GetRequest(ctx context.Context, id string) (*RequestView, error)
	ListImages(ctx context.Context, filter ImageFilter) ([]domain.VerificationImage, error)
	GetImage(ctx context.Context, id string) (*domain.VerificationImage, error)
	ExportRequests(ctx context.Context, status string) ([]RequestView, error)
	PendingBacklog(ctx context.Context, staleAfter time.Duration) (Backlog, error)
}

type verificationService struct {
	users    domain.UserRepository
	images   domain.VerificationImageRepository
	requests domain.VerificationRequestRepository
	storage  storage.ImageStorage
	policy   storage.Policy
	urls     cache.ImageURLCache
	metrics  *metrics.Metrics
}

func NewVerificationService(
	users domain.UserRepository,
	images domain.VerificationImageRepository,
	requests domain.VerificationRequestRepository,
	imageStorage storage.ImageStorage,
	policy storage.Policy,
	urls cache.ImageURLCache,
	m *metrics.Metrics,
) VerificationService {
	return &verificationService{
		users:    users,
		images:   images,
		requests: requests,
		storage:  imageStorage,
		policy:   policy,
		urls:     urls,
		metrics:  m,
	}
}

// UploadImage stores a verification image without opening a request.
func (s *verificationService) UploadImage(ctx context.Context, input SubmitImageInput) (domain.VerificationImage, error) {
	log := logger.FromContext(ctx)

	imageURL := strings.TrimSpace(input.ImageURL)
	if len(input.ImageData) == 0 && imageURL == "" {
		return domain.VerificationImage{}, ErrImageRequired
	}
	if strings.TrimSpace(input.UserID) == "" {
		return domain.VerificationImage{}, ErrUserIDRequired
	}

	user, err := s.findUser(ctx, input.UserID)
	if err != nil {
		return domain.VerificationImage{}, err
	}

	if imageURL == "" {
		contentType := input.ContentType
		if contentType == "" {
			contentType = storage.DefaultContentType
		}
		if err := s.policy.Validate(contentType, int64(len(input.ImageData))); err != nil {
			log.Warn("Verification image rejected by upload policy", map[string]interface{}{
				"user_id":      user.ID().String(),
				"content_type": contentType,
				"size":         len(input.ImageData),
				"reason":       err.Error(),
			})
			return domain.VerificationImage{}, err
		}

		imageURL, err = s.storage.Store(ctx, user.ID().String(), contentType, input.ImageData)
		if err != nil {
			log.Error("Failed to store verification image", err, map[string]interface{}{
				"user_id": user.ID().String(),
			})
			return domain.VerificationImage{}, fmt.Errorf("store image: %w", err)
		}
	}

	image, err := domain.NewVerificationImage(domain.VerificationImageProps{
		ID:        domain.UnsavedImageID(),
		UserID:    user.ID(),
		ImageURL:  imageURL,
		CreatedAt: domain.Now(),
	})
	if err != nil {
		return domain.VerificationImage{}, err
	}

	saved, err := s.images.Save(ctx, image)
	if err != nil {
		log.Error("Failed to save verification image", err, map[string]interface{}{
			"user_id": user.ID().String(),
		})
		return domain.VerificationImage{}, fmt.Errorf("save image: %w", err)
	}
	s.urls.Set(ctx, saved.ID().String(), saved.ImageURL())

	log.Info("Verification image uploaded", map[string]interface{}{
		"user_id":  user.ID().String(),
		"image_id": saved.ID().String(),
	})
	return saved, nil
}

// SubmitImage uploads an image and opens a PENDING request for it.
func (s *verificationService) SubmitImage(ctx context.Context, input SubmitImageInput) (*SubmitImageResult, error) {
	image, err := s.UploadImage(ctx, input)
	if err != nil {
		return nil, err
	}

	request, err := s.openRequest(ctx, image.UserID(), image.ID())
	if err != nil {
		return nil, err
	}
	return &SubmitImageResult{Image: image, Request: request}, nil
}

func (s *verificationService) CreateRequest(ctx context.Context, userID, imageID string) (domain.VerificationRequest, error) {
	log := logger.FromContext(ctx)

	user, err := s.findUser(ctx, userID)
	if err != nil {
		return domain.VerificationRequest{}, err
	}
	image, err := s.findImage(ctx, imageID)
	if err != nil {
		return domain.VerificationRequest{}, err
	}

	existing, err := s.requests.FindByImageID(ctx, image.ID())
	if err != nil {
		log.Error("Failed to check existing verification requests", err, map[string]interface{}{
			"image_id": image.ID().String(),
		})
		return domain.VerificationRequest{}, fmt.Errorf("find requests for image: %w", err)
	}
	if len(existing) > 0 {
		log.Warn("Verification request already exists for image", map[string]interface{}{
			"image_id":   image.ID().String(),
			"request_id": existing[0].ID(),
		})
		return domain.VerificationRequest{}, ErrDuplicateRequest
	}

	return s.openRequest(ctx, user.ID(), image.ID())
}

func (s *verificationService) openRequest(ctx context.Context, userID domain.UserID, imageID domain.ImageID) (domain.VerificationRequest, error) {
	log := logger.FromContext(ctx)

	request, err := domain.NewPendingRequest(userID, imageID, domain.Now())
	if err != nil {
		return domain.VerificationRequest{}, err
	}

	saved, err := s.requests.Save(ctx, request)
	if err != nil {
		log.Error("Failed to save verification request", err, map[string]interface{}{
			"user_id":  userID.String(),
			"image_id": imageID.String(),
		})
		return domain.VerificationRequest{}, fmt.Errorf("save verification request: %w", err)
	}
	s.metrics.IncrementRequestCreated()

	log.Info("Verification request created", map[string]interface{}{
		"request_id": saved.ID(),
		"user_id":    userID.String(),
		"image_id":   imageID.String(),
	})
	return saved, nil
}

// ReviewRequest approves or rejects a PENDING request on behalf of an admin.
func (s *verificationService) ReviewRequest(ctx context.Context, input ReviewInput) (domain.VerificationRequest, error) {
	start := time.Now()
	defer s.metrics.ObserveReview(start)

	reviewed, err := s.review(ctx, input)
	s.metrics.RecordReview(actionLabel(input.Action), reviewOutcome(err))
	return reviewed, err
}

func (s *verificationService) review(ctx context.Context, input ReviewInput) (domain.VerificationRequest, error) {
	log := logger.FromContext(ctx)

	id, err := parseRequestID(input.RequestID)
	if err != nil {
		return domain.VerificationRequest{}, err
	}
	if strings.TrimSpace(input.AdminID) == "" {
		return domain.VerificationRequest{}, ErrAdminIDRequired
	}
	switch input.Action {
	case "":
		return domain.VerificationRequest{}, ErrActionRequired
	case ActionApprove, ActionReject:
	default:
		return domain.VerificationRequest{}, ErrInvalidAction
	}
	if input.Action == ActionReject && strings.TrimSpace(input.Comment) == "" {
		return domain.VerificationRequest{}, ErrReasonRequired
	}

	admin, err := s.findUser(ctx, input.AdminID)
	if err != nil {
		return domain.VerificationRequest{}, err
	}
	if !admin.IsAdmin() {
		log.Warn("Review attempted by non-admin user", map[string]interface{}{
			"user_id":    admin.ID().String(),
			"request_id": id,
		})
		return domain.VerificationRequest{}, ErrAdminRequired
	}

	current, err := s.requests.FindByID(ctx, id)
	if err != nil {
		log.Error("Failed to load verification request", err, map[string]interface{}{
			"request_id": id,
		})
		return domain.VerificationRequest{}, fmt.Errorf("find verification request: %w", err)
	}
	if current == nil {
		return domain.VerificationRequest{}, ErrRequestNotFound
	}

	var next domain.VerificationRequest
	if input.Action == ActionApprove {
		next, err = current.Approve(admin.ID(), input.Comment)
	} else {
		next, err = current.Reject(admin.ID(), input.Comment)
	}
	if err != nil {
		log.Warn("Verification request transition refused", map[string]interface{}{
			"request_id": id,
			"action":     input.Action,
			"status":     current.Status().String(),
			"reason":     err.Error(),
		})
		return domain.VerificationRequest{}, err
	}

	saved, err := s.requests.Save(ctx, next)
	if err != nil {
		log.Error("Failed to save reviewed verification request", err, map[string]interface{}{
			"request_id": id,
		})
		return domain.VerificationRequest{}, fmt.Errorf("save verification request: %w", err)
	}

	log.Info("Verification request reviewed", map[string]interface{}{
		"request_id": id,
		"admin_id":   admin.ID().String(),
		"status":     saved.Status().String(),
	})
	return saved, nil
}

func (s *verificationService) ListRequests(ctx context.Context, filter ListFilter) ([]RequestView, error) {
	var (
		requests []domain.VerificationRequest
		err      error
	)

	switch {
	case filter.Status != "":
		status, statusErr := domain.NewVerificationStatus(filter.Status)
		if statusErr != nil {
			return nil, ErrInvalidStatus
		}
		requests, err = s.requests.FindByStatus(ctx, status)
	case filter.UserID != "":
		user, userErr := s.findUser(ctx, filter.UserID)
		if userErr != nil {
			return nil, userErr
		}
		requests, err = s.requests.FindByUserID(ctx, user.ID())
	default:
		return nil, ErrFilterRequired
	}
	if err != nil {
		logger.FromContext(ctx).Error("Failed to list verification requests", err, map[string]interface{}{
			"status":  filter.Status,
			"user_id": filter.UserID,
		})
		return nil, fmt.Errorf("list verification requests: %w", err)
	}

	return s.views(ctx, requests), nil
}

func (s *verificationService) GetRequest(ctx context.Context, id string) (*RequestView, error) {
	key, err := parseRequestID(id)
	if err != nil {
		return nil, err
	}

	request, err := s.requests.FindByID(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("find verification request: %w", err)
	}
	if request == nil {
		return nil, ErrRequestNotFound
	}

	return &RequestView{Request: *request, ImageURL: s.imageURL(ctx, request.ImageID())}, nil
}

func (s *verificationService) ListImages(ctx context.Context, filter ImageFilter) ([]domain.VerificationImage, error) {
	if filter.ImageID != "" {
		image, err := s.findImage(ctx, filter.ImageID)
		if err != nil {
			return nil, err
		}
		return []domain.VerificationImage{image}, nil
	}
	if filter.UserID == "" {
		return nil, ErrFilterRequired
	}

	user, err := s.findUser(ctx, filter.UserID)
	if err != nil {
		return nil, err
	}
	images, err := s.images.FindByUserID(ctx, user.ID())
	if err != nil {
		return nil, fmt.Errorf("list verification images: %w", err)
	}
	if len(images) == 0 {
		return nil, ErrImageNotFound
	}
	return images, nil
}

func (s *verificationService) GetImage(ctx context.Context, id string) (*domain.VerificationImage, error) {
	image, err := s.findImage(ctx, id)
	if err != nil {
		return nil, err
	}
	return &image, nil
}

// ExportRequests returns every request, or those in one status, ready for
// spreadsheet export.
func (s *verificationService) ExportRequests(ctx context.Context, status string) ([]RequestView, error) {
	var (
		requests []domain.VerificationRequest
		err      error
	)
	if status == "" {
		requests, err = s.requests.FindAll(ctx)
	} else {
		st, statusErr := domain.NewVerificationStatus(status)
		if statusErr != nil {
			return nil, ErrInvalidStatus
		}
		requests, err = s.requests.FindByStatus(ctx, st)
	}
	if err != nil {
		return nil, fmt.Errorf("export verification requests: %w", err)
	}
	return s.views(ctx, requests), nil
}

// PendingBacklog counts PENDING requests and how many of them were created
// more than staleAfter ago. ByStatus carries the size of every status.
func (s *verificationService) PendingBacklog(ctx context.Context, staleAfter time.Duration) (Backlog, error) {
	backlog := Backlog{ByStatus: make(map[string]int64, len(domain.AllStatuses()))}
	for _, st := range domain.AllStatuses() {
		n, err := s.requests.CountByStatus(ctx, st)
		if err != nil {
			return Backlog{}, fmt.Errorf("count %s requests: %w", st, err)
		}
		backlog.ByStatus[st.String()] = n
	}
	backlog.Pending = int(backlog.ByStatus[domain.StatusPending.String()])

	stale, err := s.requests.CountByStatusCreatedBefore(ctx, domain.StatusPending, time.Now().Add(-staleAfter))
	if err != nil {
		return Backlog{}, fmt.Errorf("count stale requests: %w", err)
	}
	backlog.Stale = int(stale)
	return backlog, nil
}

func (s *verificationService) findUser(ctx context.Context, raw string) (domain.User, error) {
	id, err := domain.ParseUserID(raw)
	if err != nil {
		return domain.User{}, err
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return domain.User{}, ErrUserNotFound
	}
	return *user, nil
}

func (s *verificationService) findImage(ctx context.Context, raw string) (domain.VerificationImage, error) {
	id, err := domain.NewImageID(raw)
	if err != nil {
		return domain.VerificationImage{}, err
	}
	image, err := s.images.FindByID(ctx, id)
	if err != nil {
		return domain.VerificationImage{}, fmt.Errorf("find image: %w", err)
	}
	if image == nil {
		return domain.VerificationImage{}, ErrImageNotFound
	}
	return *image, nil
}

func (s *verificationService) views(ctx context.Context, requests []domain.VerificationRequest) []RequestView {
	views := make([]RequestView, 0, len(requests))
	for _, r := range requests {
		views = append(views, RequestView{Request: r, ImageURL: s.imageURL(ctx, r.ImageID())})
	}
	return views
}

func (s *verificationService) imageURL(ctx context.Context, id domain.ImageID) string {
	if url, ok := s.urls.Get(ctx, id.String()); ok {
		return url
	}

	image, err := s.images.FindByID(ctx, id)
	if err != nil {
		logger.FromContext(ctx).Warn("Failed to resolve image URL", map[string]interface{}{
			"image_id": id.String(),
			"error":    err.Error(),
		})
		return ""
	}
	if image == nil {
		return ""
	}
	s.urls.Set(ctx, id.String(), image.ImageURL())
	return image.ImageURL()
}

func parseRequestID(raw string) (uint, error) {
	n, err := domain.NewNumericID(raw)
	if err != nil || n.Uint64() == 0 {
		return 0, ErrInvalidRequestID
	}
	return n.Uint(), nil
}

func actionLabel(action string) string {
	if action == ActionApprove || action == ActionReject {
		return action
	}
	return "unknown"
}

func reviewOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrAdminRequired):
		return "forbidden"
	case errors.Is(err, ErrRequestNotFound), errors.Is(err, ErrUserNotFound):
		return "not_found"
	case IsInputError(err):
		return "invalid"
	default:
		return "error"
	}
}

// IsInputError reports whether err was caused by the caller's input rather
// than by storage.
func IsInputError(err error) bool {
	if domain.IsValidationError(err) || domain.IsTransitionError(err) {
		return true
	}
	for _, target := range []error{
		ErrUserIDRequired, ErrImageRequired, ErrFilterRequired, ErrInvalidRequestID,
		ErrInvalidStatus, ErrAdminIDRequired, ErrActionRequired, ErrInvalidAction,
		ErrReasonRequired, domain.ErrInvalidIDFormat,
		storage.ErrFileTooLarge, storage.ErrContentTypeNotAllowed, storage.ErrInvalidImageData,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
