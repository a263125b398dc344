package server

import (
	"net/http"
	"path"
	"strings"

	companydomain "github.com/brokerbase/polisdesk/internal/company/domain"
	"github.com/brokerbase/polisdesk/pkg/tenantctx"
	"github.com/gin-gonic/gin"
)

// Logos render inline on printed documents, so the cap is tighter than
// for record photos.
const maxLogoBytes = 5 << 20

func (s *Server) CreateCompanyProfile(c *gin.Context) {
	var req companydomain.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	profile, err := s.companySvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "company.create_profile", "", map[string]any{"companyName": profile.CompanyName})

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Company profile created successfully",
		"profile": profile,
	})
}

func (s *Server) GetCompanyProfile(c *gin.Context) {
	profile, err := s.companySvc.Get(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"profile": profile,
	})
}

func (s *Server) UpdateCompanyProfile(c *gin.Context) {
	var req companydomain.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	profile, err := s.companySvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "company.update_profile", "", map[string]any{"companyName": profile.CompanyName})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Company profile updated successfully",
		"profile": profile,
	})
}

func (s *Server) UploadCompanyLogo(c *gin.Context) {
	ctx := c.Request.Context()
	tenant, ok := tenantctx.TenantHandle(ctx)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	// The profile must exist before a logo can hang off it.
	profile, err := s.companySvc.Get(ctx)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if !profile.Exists() {
		AbortWithError(c, companydomain.ErrProfileMissing)
		return
	}

	header, err := c.FormFile("logo")
	if err != nil {
		AbortWithError(c, ErrNoFilesUploaded)
		return
	}
	if header.Size > maxLogoBytes {
		AbortWithError(c, ErrFileTooLarge)
		return
	}
	contentType := header.Header.Get("Content-Type")
	if !allowedContentType(contentType, false) {
		AbortWithError(c, ErrUnsupportedFileType)
		return
	}

	file, err := header.Open()
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	defer file.Close()

	key := "company/" + tenant + "/logo" + strings.ToLower(path.Ext(header.Filename))
	url, err := s.blobStore.Put(ctx, key, file, contentType)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	s.obsMetrics.RecordUpload(ctx, "company", "logo")

	logo := companydomain.Logo{
		URL:        url,
		Key:        key,
		UploadedAt: s.clk.Now().UnixMilli(),
	}

	// A replacement under a different extension leaves the old object
	// behind; drop it once the new one is stored.
	if old := profile.Logo; old != nil && old.Key != key {
		_ = s.blobStore.Delete(ctx, old.Key)
	}

	if _, err := s.companySvc.SetLogo(ctx, logo); err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "company.upload_logo", "", nil)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Company logo uploaded successfully",
		"logo":    logo,
	})
}

func (s *Server) DeleteCompanyLogo(c *gin.Context) {
	ctx := c.Request.Context()

	removed, err := s.companySvc.ClearLogo(ctx)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if removed != nil && removed.Key != "" {
		_ = s.blobStore.Delete(ctx, removed.Key)
	}

	s.audit(c, "company.delete_logo", "", nil)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Company logo deleted successfully",
	})
}
