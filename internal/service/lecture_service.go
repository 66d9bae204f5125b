package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"lecture-qa/internal/config"
	"lecture-qa/internal/difficulty"
	"lecture-qa/internal/domain"
	"lecture-qa/internal/dto"
	"lecture-qa/internal/extractor"
	"lecture-qa/internal/logger"
	"lecture-qa/internal/util"

	"go.uber.org/zap"
)

// UploadInput is a deck received from a client together with its form fields.
type UploadInput struct {
	Form     dto.LectureUploadForm
	Filename string
	Size     int64
	Content  io.Reader
}

// LectureService defines the lecture lifecycle: upload, background processing
// and the read models built on the extracted slides.
type LectureService interface {
	Upload(ctx context.Context, in UploadInput) (*dto.UploadResponse, error)
	List(ctx context.Context, skip, limit int) (*dto.LectureListResponse, error)
	Get(ctx context.Context, id string) (*dto.LectureResponse, error)
	Delete(ctx context.Context, id string) error
	Slides(ctx context.Context, id string) (*dto.SlidesResponse, error)
	Summary(ctx context.Context, id string) (*dto.LectureSummaryResponse, error)
	Questions(ctx context.Context, id string, filter domain.QuestionFilter) ([]dto.QuestionResponse, error)
	Status(ctx context.Context, id string) (*dto.ProcessingStatusResponse, error)
	Regenerate(ctx context.Context, id string, req *dto.GenerateRequest) (*dto.GenerateAcceptedResponse, error)
	// Wait blocks until every background run started by the service has finished.
	Wait()
}

type lectureService struct {
	lectures  domain.LectureRepository
	questions domain.QuestionRepository
	responses domain.ResponseRepository
	tx        domain.TransactionManager
	extractor SlideExtractor
	generator QuestionGenerator
	dedupe    *DuplicateFilter
	slides    *SlideCache
	tracker   *StatusTracker
	upload    config.UploadConfig
	gen       config.GenerationConfig

	// base outlives request contexts so background runs are not cancelled
	// when the upload response is written.
	base context.Context
	wg   sync.WaitGroup
}

// NewLectureService creates a new instance of lectureService. base is the
// parent context of background processing runs.
func NewLectureService(
	base context.Context,
	lectures domain.LectureRepository,
	questions domain.QuestionRepository,
	responses domain.ResponseRepository,
	tx domain.TransactionManager,
	slideExtractor SlideExtractor,
	generator QuestionGenerator,
	dedupe *DuplicateFilter,
	slides *SlideCache,
	tracker *StatusTracker,
	cfg *config.Config,
) LectureService {
	if base == nil {
		base = context.Background()
	}
	return &lectureService{
		lectures:  lectures,
		questions: questions,
		responses: responses,
		tx:        tx,
		extractor: slideExtractor,
		generator: generator,
		dedupe:    dedupe,
		slides:    slides,
		tracker:   tracker,
		upload:    cfg.Upload,
		gen:       cfg.Generation,
		base:      base,
	}
}

func (s *lectureService) Upload(ctx context.Context, in UploadInput) (*dto.UploadResponse, error) {
	ext := strings.ToLower(filepath.Ext(in.Filename))
	if !slices.Contains(s.upload.AllowedExtensions, ext) {
		return nil, domain.NewUnsupportedFileError(in.Filename, s.upload.AllowedExtensions)
	}
	if s.upload.MaxFileSize > 0 && in.Size > s.upload.MaxFileSize {
		return nil, domain.NewFileTooLargeError(in.Size, s.upload.MaxFileSize)
	}

	lectureDate, err := parseLectureDate(in.Form.LectureDate)
	if err != nil {
		return nil, err
	}

	id := util.NewULID()
	path, size, err := s.store(id+ext, in.Content)
	if err != nil {
		return nil, domain.NewInternalError("Failed to store uploaded file", err)
	}
	if s.upload.MaxFileSize > 0 && size > s.upload.MaxFileSize {
		s.removeFile(path)
		return nil, domain.NewFileTooLargeError(size, s.upload.MaxFileSize)
	}

	lecture := &domain.Lecture{
		ID:               id,
		Title:            in.Form.Title,
		Description:      in.Form.Description,
		OriginalFilename: in.Filename,
		FilePath:         path,
		FileSize:         size,
		Status:           domain.StatusUploaded,
		Author:           in.Form.Author,
		Subject:          in.Form.Subject,
		LectureDate:      lectureDate,
	}
	if err := s.lectures.Create(ctx, lecture); err != nil {
		s.removeFile(path)
		return nil, domain.NewInternalError("Failed to create lecture", err)
	}

	logger.Get().Info("Lecture uploaded",
		zap.String("lecture_id", id),
		zap.String("filename", in.Filename),
		zap.Int64("size", size))

	s.tracker.Update(ctx, id, map[string]string{FieldStage: StageQueued})
	s.spawn(id, func(ctx context.Context) error { return s.process(ctx, lecture) })

	return &dto.UploadResponse{
		LectureID: id,
		Status:    string(domain.StatusUploaded),
		Message:   "Lecture uploaded. Slide extraction and question generation have started.",
	}, nil
}

func parseLectureDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, domain.NewInvalidInputError("lecture_date must be formatted as YYYY-MM-DD")
	}
	return &t, nil
}

// store copies the upload into the upload folder and returns the stored
// path and the number of bytes written.
func (s *lectureService) store(name string, content io.Reader) (string, int64, error) {
	if err := os.MkdirAll(s.upload.Folder, 0o755); err != nil {
		return "", 0, fmt.Errorf("failed to create upload folder: %w", err)
	}
	path := filepath.Join(s.upload.Folder, name)
	f, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	n, err := io.Copy(f, content)
	if err != nil {
		_ = os.Remove(path)
		return "", 0, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, n, nil
}

func (s *lectureService) removeFile(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Get().Warn("Failed to remove lecture file", zap.String("path", path), zap.Error(err))
	}
}

func (s *lectureService) List(ctx context.Context, skip, limit int) (*dto.LectureListResponse, error) {
	lectures, err := s.lectures.List(ctx, skip, limit)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list lectures", err)
	}
	total, err := s.lectures.Count(ctx)
	if err != nil {
		return nil, domain.NewInternalError("Failed to count lectures", err)
	}

	items := make([]dto.LectureResponse, 0, len(lectures))
	for _, l := range lectures {
		items = append(items, dto.NewLectureResponse(l))
	}
	return &dto.LectureListResponse{Lectures: items, Total: total, Skip: skip, Limit: limit}, nil
}

func (s *lectureService) Get(ctx context.Context, id string) (*dto.LectureResponse, error) {
	lecture, err := s.getLecture(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewLectureResponse(lecture)
	return &resp, nil
}

func (s *lectureService) getLecture(ctx context.Context, id string) (*domain.Lecture, error) {
	lecture, err := s.lectures.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get lecture", err)
	}
	if lecture == nil {
		return nil, domain.NewLectureNotFoundError(id)
	}
	return lecture, nil
}

// Delete removes the lecture with its questions and their responses, then
// the stored deck and any cached state.
func (s *lectureService) Delete(ctx context.Context, id string) error {
	lecture, err := s.getLecture(ctx, id)
	if err != nil {
		return err
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.responses.DeleteByLecture(ctx, id); err != nil {
			return err
		}
		if err := s.questions.DeleteByLecture(ctx, id); err != nil {
			return err
		}
		return s.lectures.Delete(ctx, id)
	})
	if err != nil {
		return domain.NewInternalError("Failed to delete lecture", err)
	}

	s.removeFile(lecture.FilePath)
	s.slides.Invalidate(ctx, id)
	s.tracker.Clear(ctx, id)
	logger.Get().Info("Lecture deleted", zap.String("lecture_id", id))
	return nil
}

// loadSlides returns the extracted slides of a lecture through the slide cache.
func (s *lectureService) loadSlides(ctx context.Context, id string) ([]domain.SlideRecord, error) {
	slides, err := s.slides.Get(ctx, id, func(ctx context.Context) ([]domain.SlideRecord, error) {
		lecture, err := s.getLecture(ctx, id)
		if err != nil {
			return nil, err
		}
		return lecture.Slides, nil
	})
	if err != nil {
		return nil, err
	}
	return slides, nil
}

func (s *lectureService) Slides(ctx context.Context, id string) (*dto.SlidesResponse, error) {
	slides, err := s.loadSlides(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(slides) == 0 {
		return nil, domain.NewNotFoundError("lecture has no extracted slides").WithContext("lecture_id", id)
	}
	return &dto.SlidesResponse{LectureID: id, TotalSlides: len(slides), Slides: slides}, nil
}

func (s *lectureService) Summary(ctx context.Context, id string) (*dto.LectureSummaryResponse, error) {
	lecture, err := s.getLecture(ctx, id)
	if err != nil {
		return nil, err
	}
	slides, err := s.loadSlides(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(slides) == 0 {
		return nil, domain.NewNotFoundError("lecture has no extracted slides").WithContext("lecture_id", id)
	}
	return &dto.LectureSummaryResponse{
		LectureID: id,
		Title:     lecture.Title,
		Summary:   extractor.Summarize(slides),
	}, nil
}

func (s *lectureService) Questions(ctx context.Context, id string, filter domain.QuestionFilter) ([]dto.QuestionResponse, error) {
	if _, err := s.getLecture(ctx, id); err != nil {
		return nil, err
	}
	filter.LectureID = id
	questions, err := s.questions.List(ctx, filter)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list lecture questions", err)
	}
	return dto.NewQuestionResponses(questions), nil
}

func (s *lectureService) Status(ctx context.Context, id string) (*dto.ProcessingStatusResponse, error) {
	lecture, err := s.getLecture(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.ProcessingStatusResponse{
		LectureID:    id,
		Status:       string(lecture.Status),
		IsProcessed:  lecture.IsProcessed,
		ErrorMessage: lecture.ErrorMessage,
		TotalSlides:  lecture.TotalSlides,
		Progress:     s.tracker.Get(ctx, id),
	}, nil
}

// Regenerate schedules a comprehensive generation run over the extracted
// slides of a lecture. The run itself happens in the background.
func (s *lectureService) Regenerate(ctx context.Context, id string, req *dto.GenerateRequest) (*dto.GenerateAcceptedResponse, error) {
	lecture, err := s.getLecture(ctx, id)
	if err != nil {
		return nil, err
	}
	if lecture.Status == domain.StatusProcessing {
		return nil, domain.NewLectureBusyError(id)
	}

	slides, err := s.loadSlides(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(slides) == 0 {
		return nil, domain.NewInvalidInputError("lecture has no extracted slides to generate questions from")
	}

	ratios := s.defaultRatios()
	if req.Ratios != nil {
		ratios = req.Ratios.ToRatios()
	}
	if err := difficulty.ValidateRatios(ratios); err != nil {
		return nil, domain.NewInvalidInputError(err.Error())
	}

	if err := s.lectures.UpdateStatus(ctx, id, domain.StatusProcessing, ""); err != nil {
		return nil, domain.NewInternalError("Failed to update lecture status", err)
	}
	s.tracker.Update(ctx, id, map[string]string{
		FieldStage:     StageQueued,
		FieldRequested: fmt.Sprint(req.TotalQuestions),
	})

	total, replace := req.TotalQuestions, req.ReplaceExisting
	s.spawn(id, func(ctx context.Context) error {
		return s.regenerate(ctx, id, slides, total, ratios, replace)
	})

	return &dto.GenerateAcceptedResponse{
		LectureID:      id,
		TotalQuestions: total,
		Ratios:         ratios,
		Message:        "Question generation has started.",
	}, nil
}

func (s *lectureService) defaultRatios() difficulty.Ratios {
	r := s.gen.DefaultRatios
	if r.Easy == 0 && r.Medium == 0 && r.Hard == 0 {
		return difficulty.DefaultRatios()
	}
	return difficulty.Ratios{Easy: r.Easy, Medium: r.Medium, Hard: r.Hard}
}

func (s *lectureService) Wait() {
	s.wg.Wait()
}
