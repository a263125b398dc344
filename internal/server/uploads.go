package server

import (
	"errors"
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	customerdomain "github.com/brokerbase/polisdesk/internal/customer/domain"
	propertydomain "github.com/brokerbase/polisdesk/internal/property/domain"
	"github.com/brokerbase/polisdesk/pkg/field"
	"github.com/gin-gonic/gin"
)

const maxUploadBytes = 10 << 20

var (
	ErrNoFilesUploaded     = errors.New("no_files_uploaded")
	ErrUnsupportedFileType = errors.New("unsupported_file_type")
	ErrFileTooLarge        = errors.New("file_too_large")
)

var (
	carPhotoSlots         = []string{"leftSide", "rightSide", "front", "back"}
	customerDocumentSlots = []string{"stnk", "sim", "ktp"}
	propertyPhotoSlots    = []string{"front", "back", "left", "right", "interior1", "interior2", "interior3", "interior4"}
	propertyDocumentSlots = []string{"certificate", "imb", "pbb", "other"}
)

func (s *Server) UploadCarPhotos(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if _, err := s.customerSvc.Get(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	urls, err := s.storeUploads(c, "customer", id, carPhotoSlots, false)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	patch := &customerdomain.CarPhotosPatch{}
	for slot, url := range urls {
		switch slot {
		case "leftSide":
			patch.LeftSide = field.Set(url)
		case "rightSide":
			patch.RightSide = field.Set(url)
		case "front":
			patch.Front = field.Set(url)
		case "back":
			patch.Back = field.Set(url)
		}
	}

	resp, err := s.customerSvc.Update(c.Request.Context(), id, customerdomain.UpdateRequest{CarPhotos: patch})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "customer.upload_photos", id, map[string]any{"slots": slotNames(urls)})

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Car photos uploaded successfully",
		"photos":   urls,
		"customer": resp,
	})
}

func (s *Server) UploadKtpPhoto(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if _, err := s.customerSvc.Get(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	urls, err := s.storeUploads(c, "customer", id, []string{"ktp"}, false)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	patch := &customerdomain.DocumentPhotosPatch{KTP: field.Set(urls["ktp"])}
	resp, err := s.customerSvc.Update(c.Request.Context(), id, customerdomain.UpdateRequest{DocumentPhotos: patch})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "customer.upload_ktp", id, nil)

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "KTP photo uploaded successfully",
		"photos":   urls,
		"customer": resp,
	})
}

func (s *Server) UploadCustomerDocuments(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if _, err := s.customerSvc.Get(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	urls, err := s.storeUploads(c, "customer", id, customerDocumentSlots, true)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	patch := &customerdomain.DocumentPhotosPatch{}
	for slot, url := range urls {
		switch slot {
		case "stnk":
			patch.STNK = field.Set(url)
		case "sim":
			patch.SIM = field.Set(url)
		case "ktp":
			patch.KTP = field.Set(url)
		}
	}

	resp, err := s.customerSvc.Update(c.Request.Context(), id, customerdomain.UpdateRequest{DocumentPhotos: patch})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "customer.upload_documents", id, map[string]any{"slots": slotNames(urls)})

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Documents uploaded successfully",
		"documents": urls,
		"customer":  resp,
	})
}

func (s *Server) UploadPropertyPhotos(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if _, err := s.propertySvc.Get(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	urls, err := s.storeUploads(c, "property", id, propertyPhotoSlots, false)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	patch := &propertydomain.PropertyPhotosPatch{}
	for slot, url := range urls {
		switch slot {
		case "front":
			patch.Front = field.Set(url)
		case "back":
			patch.Back = field.Set(url)
		case "left":
			patch.Left = field.Set(url)
		case "right":
			patch.Right = field.Set(url)
		case "interior1":
			patch.Interior1 = field.Set(url)
		case "interior2":
			patch.Interior2 = field.Set(url)
		case "interior3":
			patch.Interior3 = field.Set(url)
		case "interior4":
			patch.Interior4 = field.Set(url)
		}
	}

	resp, err := s.propertySvc.Update(c.Request.Context(), id, propertydomain.UpdateRequest{PropertyPhotos: patch})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "property.upload_photos", id, map[string]any{"slots": slotNames(urls)})

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Property photos uploaded successfully",
		"photos":   urls,
		"property": resp,
	})
}

func (s *Server) UploadPropertyDocuments(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if _, err := s.propertySvc.Get(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	urls, err := s.storeUploads(c, "property", id, propertyDocumentSlots, true)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	patch := &propertydomain.DocumentsPatch{}
	for slot, url := range urls {
		switch slot {
		case "certificate":
			patch.Certificate = field.Set(url)
		case "imb":
			patch.IMB = field.Set(url)
		case "pbb":
			patch.PBB = field.Set(url)
		case "other":
			patch.Other = field.Set(url)
		}
	}

	resp, err := s.propertySvc.Update(c.Request.Context(), id, propertydomain.UpdateRequest{Documents: patch})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "property.upload_documents", id, map[string]any{"slots": slotNames(urls)})

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Property documents uploaded successfully",
		"documents": urls,
		"property":  resp,
	})
}

// storeUploads writes each present slot to the blob store under a
// deterministic key, so re-uploading a slot replaces the prior object.
func (s *Server) storeUploads(c *gin.Context, collection, id string, slots []string, allowPDF bool) (map[string]string, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, ErrInvalidRequest
	}

	urls := make(map[string]string)
	for _, slot := range slots {
		headers := form.File[slot]
		if len(headers) == 0 {
			continue
		}

		header := headers[0]
		if header.Size > maxUploadBytes {
			return nil, ErrFileTooLarge
		}

		contentType := header.Header.Get("Content-Type")
		if !allowedContentType(contentType, allowPDF) {
			return nil, ErrUnsupportedFileType
		}

		url, err := s.storeUpload(c, collection, id, slot, contentType, header)
		if err != nil {
			return nil, err
		}
		urls[slot] = url

		s.obsMetrics.RecordUpload(c.Request.Context(), collection, slot)
	}

	if len(urls) == 0 {
		return nil, ErrNoFilesUploaded
	}
	return urls, nil
}

func (s *Server) storeUpload(c *gin.Context, collection, id, slot, contentType string, header *multipart.FileHeader) (string, error) {
	file, err := header.Open()
	if err != nil {
		return "", ErrInvalidRequest
	}
	defer file.Close()

	key := collection + "/" + id + "/" + slot + strings.ToLower(path.Ext(header.Filename))
	return s.blobStore.Put(c.Request.Context(), key, file, contentType)
}

func allowedContentType(contentType string, allowPDF bool) bool {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if strings.HasPrefix(contentType, "image/") {
		return true
	}
	return allowPDF && contentType == "application/pdf"
}

func slotNames(urls map[string]string) []string {
	names := make([]string, 0, len(urls))
	for slot := range urls {
		names = append(names, slot)
	}
	return names
}
