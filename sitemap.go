package blog

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// handleSitemap regenerates the sitemap on every request, stamped with the
// time of this request.
func (a *App) handleSitemap(c echo.Context) error {
	doc, err := a.BuildSitemap(c.Request().Context(), a.now())
	if err != nil {
		return err
	}
	b, err := doc.Marshal()
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationXML, b)
}
