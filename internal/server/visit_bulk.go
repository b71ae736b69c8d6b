package server

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	visitdomain "github.com/fieldline/fieldline/internal/visit/domain"
	"github.com/gin-gonic/gin"
)

const maxBulkBodyBytes = 64 << 20

// BulkUpsertVisits accepts a JSON batch or a multipart form carrying the same
// batch in the "visits" field plus image files keyed per element. Element
// failures never fail the request; the status code reflects the mix of
// outcomes.
func (s *Server) BulkUpsertVisits(c *gin.Context) {
	elements, err := s.readBulkElements(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	result, err := s.visitSvc.BulkUpsert(c.Request.Context(), elements)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		_ = s.auditSvc.AuditLog(c.Request.Context(), "visit.bulk_upsert", "visit", "", map[string]any{
			"total":   result.Summary.Total,
			"created": result.Summary.Created,
			"updated": result.Summary.Updated,
			"failed":  result.Summary.Failed,
		})
	}

	c.JSON(bulkStatus(result.Summary), gin.H{"data": result})
}

func bulkStatus(summary visitdomain.BulkSummary) int {
	switch {
	case summary.Failed == 0 && summary.Created > 0:
		return http.StatusCreated
	case summary.Failed == 0:
		return http.StatusOK
	case summary.Failed == summary.Total:
		return http.StatusBadRequest
	default:
		return http.StatusMultiStatus
	}
}

func (s *Server) readBulkElements(c *gin.Context) ([]visitdomain.BulkElement, error) {
	contentType := c.ContentType()
	if strings.HasPrefix(contentType, "multipart/") {
		return readMultipartBulk(c)
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBulkBodyBytes))
	if err != nil {
		return nil, invalidRequestError()
	}
	return decodeBulkElements(body)
}

// decodeBulkElements accepts {"visits": [...]}, the legacy {"visit": [...]}
// and a bare top-level array.
func decodeBulkElements(body []byte) ([]visitdomain.BulkElement, error) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return nil, invalidRequestError()
	}

	if strings.HasPrefix(trimmed, "[") {
		var elements []visitdomain.BulkElement
		if err := json.Unmarshal(body, &elements); err != nil {
			return nil, invalidRequestError()
		}
		return elements, nil
	}

	var envelope struct {
		Visits []visitdomain.BulkElement `json:"visits"`
		Visit  []visitdomain.BulkElement `json:"visit"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, invalidRequestError()
	}
	if envelope.Visits != nil {
		return envelope.Visits, nil
	}
	return envelope.Visit, nil
}

func readMultipartBulk(c *gin.Context) ([]visitdomain.BulkElement, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, invalidRequestError()
	}

	payloads := form.Value["visits"]
	if len(payloads) == 0 {
		return nil, invalidRequestError()
	}

	elements, err := decodeBulkElements([]byte(payloads[0]))
	if err != nil {
		return nil, err
	}

	for i := range elements {
		images, err := elementImages(form, i)
		if err != nil {
			return nil, err
		}
		elements[i].Images = images
	}

	return elements, nil
}

func elementImages(form *multipart.Form, index int) (visitdomain.ElementImages, error) {
	var images visitdomain.ElementImages

	classes := []struct {
		key    string
		target *[]visitdomain.ImageFile
	}{
		{fmt.Sprintf("visit_%d_self_images", index), &images.Self},
		{fmt.Sprintf("visit_%d_customer_images", index), &images.Customer},
		{fmt.Sprintf("visit_%d_cooler_images", index), &images.Cooler},
	}

	for _, class := range classes {
		for _, header := range form.File[class.key] {
			file, err := readImageFile(header)
			if err != nil {
				return visitdomain.ElementImages{}, err
			}
			*class.target = append(*class.target, file)
		}
	}

	return images, nil
}

func readImageFile(header *multipart.FileHeader) (visitdomain.ImageFile, error) {
	reader, err := header.Open()
	if err != nil {
		return visitdomain.ImageFile{}, invalidRequestError()
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return visitdomain.ImageFile{}, invalidRequestError()
	}

	return visitdomain.ImageFile{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
