package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	storedomain "github.com/ledgerpad/ledgerpad/internal/store/domain"
)

// PreviewDocument returns the rendered HTML document directly, the
// browser-viewable equivalent of the PDF export.
func (s *Server) PreviewDocument(c *gin.Context) {
	invoice, err := s.store.InvoiceByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	html, err := s.renderer.Render(invoice, s.settingsSvc.Get(c.Request.Context()))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

func (s *Server) ExportPDF(c *gin.Context) {
	result, err := s.exporter.ExportPDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) ExportCSV(c *gin.Context) {
	status, ok := storedomain.ParseStatus(c.Query("status"))
	if !ok {
		AbortWithError(c, newValidationError("status", "invalid_status", "invalid value"))
		return
	}

	result, err := s.exporter.ExportCSV(c.Request.Context(), status)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) EmailInvoice(c *gin.Context) {
	result, err := s.exporter.EmailInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
