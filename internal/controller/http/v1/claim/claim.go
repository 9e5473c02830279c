package claim

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"claimtable/backend/internal/pkg/config"
	"claimtable/backend/internal/service/claim"
	"claimtable/backend/internal/service/report"
	"claimtable/backend/internal/service/sheet"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Controller struct {
	claims Claims
	log    *zap.Logger
}

func NewController(claims Claims, log *zap.Logger) *Controller {
	return &Controller{claims, log}
}

// request is what both endpoints read from a multipart upload.
type request struct {
	settings   config.Settings
	format     report.Format
	timecard   claim.Source
	masterlist claim.Source
	close      func()
}

func (cc Controller) bind(c *gin.Context) (request, error) {
	var form SettingsForm
	if err := c.ShouldBind(&form); err != nil {
		return request{}, errors.Wrap(err, "reading form")
	}

	settings, err := form.Apply(cc.claims.Settings())
	if err != nil {
		return request{}, err
	}
	format, err := report.ParseFormat(form.Format)
	if err != nil {
		return request{}, err
	}

	timecard, closeTimecard, err := formSource(c, "timecard")
	if err != nil {
		return request{}, err
	}
	masterlist, closeMasterlist, err := formSource(c, "masterlist")
	if err != nil {
		closeTimecard()
		return request{}, err
	}

	return request{
		settings:   settings,
		format:     format,
		timecard:   timecard,
		masterlist: masterlist,
		close: func() {
			closeTimecard()
			closeMasterlist()
		},
	}, nil
}

// Export runs the uploaded files and answers with the rendered report as an attachment.
func (cc Controller) Export(c *gin.Context) {
	req, err := cc.bind(c)
	if err != nil {
		cc.respondError(c, err)
		return
	}
	defer req.close()

	res := cc.claims.GenerateWith(req.settings, req.timecard, req.masterlist)
	if !res.OK() {
		cc.respondError(c, res.Err)
		return
	}

	var buf bytes.Buffer
	if err := req.format.Write(&buf, res.Report); err != nil {
		cc.log.Error("rendering report", zap.String("run_id", res.Report.RunID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not render report", "status": false})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Report.FileName(req.format.Ext())))
	c.Header("X-Run-Id", res.Report.RunID)
	c.Data(http.StatusOK, req.format.ContentType(), buf.Bytes())
}

// Preview runs the uploaded files and answers with the tables as JSON.
func (cc Controller) Preview(c *gin.Context) {
	req, err := cc.bind(c)
	if err != nil {
		cc.respondError(c, err)
		return
	}
	defer req.close()

	res := cc.claims.GenerateWith(req.settings, req.timecard, req.masterlist)
	if !res.OK() {
		cc.respondError(c, res.Err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":   newPreviewResponse(res.Report, req.settings),
		"status": true,
	})
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (cc Controller) respondError(c *gin.Context, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		cc.log.Error("claim request failed", zap.Error(err))
	} else {
		cc.log.Info("claim request rejected", zap.Int("status", status), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error(), "status": false})
}

// statusOf maps a failure to its HTTP status. Anything the caller sent that the
// pipeline could not use is a 400.
func statusOf(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge), strings.Contains(err.Error(), "request body too large"):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errBadContentType), errors.Is(err, sheet.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, errMissingFile),
		errors.Is(err, claim.ErrMissingColumns),
		errors.Is(err, sheet.ErrEmptySheet),
		errors.Is(err, config.ErrInvalidSettings),
		errors.Is(err, report.ErrUnknownFormat):
		return http.StatusBadRequest
	case errors.Is(err, claim.ErrInternal):
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}
