package upload

import (
	"fmt"
	"io"
	"net/url"
	"path/filepath"

	"github.com/heartmarshall/translation-desk/internal/domain"
)

// FileInput is one file selected for upload.
type FileInput struct {
	Name    string    `json:"name" validate:"required"`
	Content io.Reader `json:"-" validate:"required"`
}

type filesRequest struct {
	Files []FileInput `json:"files" validate:"required,min=1,dive"`
}

type urlsRequest struct {
	URLs []string `json:"urls" validate:"required,min=1,dive,required,http_url"`
}

func (s *Service) validateFiles(clientID string, files []FileInput) error {
	if clientID == "" {
		return domain.ErrNoActiveClient
	}
	if err := s.validate.Struct(filesRequest{Files: files}); err != nil {
		return domain.FromValidator(err)
	}

	var errs []domain.FieldError
	for i, f := range files {
		if !s.cfg.IsAllowedExtension(f.Name) {
			errs = append(errs, domain.FieldError{
				Field:   fmt.Sprintf("files[%d]", i),
				Message: fmt.Sprintf("不支持的文件类型: %s", displayExt(f.Name)),
			})
		}
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func (s *Service) validateURLs(clientID string, urls []string) error {
	if clientID == "" {
		return domain.ErrNoActiveClient
	}
	if err := s.validate.Struct(urlsRequest{URLs: urls}); err != nil {
		return domain.FromValidator(err)
	}

	var errs []domain.FieldError
	for i, raw := range urls {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, domain.FieldError{
				Field:   fmt.Sprintf("urls[%d]", i),
				Message: "不是有效的网址",
			})
		}
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func displayExt(name string) string {
	if ext := filepath.Ext(name); ext != "" {
		return ext
	}
	return name
}
