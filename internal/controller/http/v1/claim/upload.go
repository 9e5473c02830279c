package claim

import (
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"claimtable/backend/internal/service/claim"
	"claimtable/backend/internal/service/sheet"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

var (
	errMissingFile     = errors.New("missing file")
	errBadContentType  = errors.New("invalid file type")
	allowedContentType = []string{
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", // .xlsx
		"application/vnd.ms-excel.sheet.macroEnabled.12",                    // .xlsm
		"application/vnd.ms-excel",                                          // .xls, and .csv from some browsers
		"text/csv",
		"application/csv",
		"text/plain",
		"application/octet-stream",
	}
)

func InArray[T comparable](val T, array []T) bool {
	for _, v := range array {
		if val == v {
			return true
		}
	}
	return false
}

// checkUpload rejects a file whose extension or declared content type is not a
// spreadsheet. A missing Content-Type header is accepted.
func checkUpload(file *multipart.FileHeader) error {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !InArray(ext, sheet.SupportedExtensions) {
		return errors.Wrapf(sheet.ErrUnsupportedFormat, "%s: expected one of %v", file.Filename, sheet.SupportedExtensions)
	}

	incomeContentType := file.Header.Get("Content-Type")
	if i := strings.IndexByte(incomeContentType, ';'); i >= 0 {
		incomeContentType = incomeContentType[:i]
	}
	incomeContentType = strings.TrimSpace(incomeContentType)
	if incomeContentType != "" && !InArray(incomeContentType, allowedContentType) {
		return errors.Wrapf(errBadContentType, "%s: got %s", file.Filename, incomeContentType)
	}
	return nil
}

// formSource opens the uploaded file of a multipart field. The returned close
// function must be called once the source has been read.
func formSource(c *gin.Context, field string) (claim.Source, func(), error) {
	file, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return claim.Source{}, nil, errors.Wrapf(errMissingFile, "%s is required", field)
		}
		return claim.Source{}, nil, errors.Wrapf(err, "reading %s", field)
	}
	if err := checkUpload(file); err != nil {
		return claim.Source{}, nil, err
	}

	src, err := file.Open()
	if err != nil {
		return claim.Source{}, nil, errors.Wrapf(err, "opening %s", field)
	}
	return claim.Source{Name: file.Filename, Reader: src}, func() { _ = src.Close() }, nil
}
