package spacetraveling

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/spacetraveling/localcms"
	"github.com/eringen/spacetraveling/posts"
	"github.com/eringen/spacetraveling/prismic"
)

const robotsTxt = "User-agent: *\nAllow: /\n"

func (a *App) handleHome(c echo.Context) error {
	page, err := a.loadPage(c)
	if err != nil {
		return err
	}
	if c.Request().Header.Get("HX-Request") == "true" && c.QueryParam("partial") == "posts" {
		return Render(c, a.Views.PostList(page))
	}
	return Render(c, a.Views.Home(a.viewConfig(), page))
}

func (a *App) handleAPIPosts(c echo.Context) error {
	page, err := a.loadPage(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// loadPage prepares the first page, or the page behind ?page= when set.
func (a *App) loadPage(c echo.Context) (posts.PostPagination, error) {
	ctx := c.Request().Context()
	cursor := c.QueryParam("page")
	if cursor == "" {
		page, err := a.Preparer.Prepare(ctx)
		if err != nil {
			return page, upstreamError(err)
		}
		return page, nil
	}

	if !a.cursorLimiter.Allow(c.RealIP()) {
		return posts.PostPagination{}, echo.NewHTTPError(http.StatusTooManyRequests, "too many requests")
	}
	page, err := a.Preparer.PrepareNext(ctx, cursor)
	if err != nil {
		if isCursorError(err) {
			return page, echo.NewHTTPError(http.StatusBadRequest, "invalid page cursor").SetInternal(err)
		}
		return page, upstreamError(err)
	}
	return page, nil
}

func isCursorError(err error) bool {
	return errors.Is(err, posts.ErrInvalidCursor) ||
		errors.Is(err, prismic.ErrForeignCursor) ||
		errors.Is(err, localcms.ErrInvalidCursor)
}

func upstreamError(err error) error {
	return echo.NewHTTPError(http.StatusInternalServerError, "content unavailable").SetInternal(err)
}

func (a *App) handleRobots(c echo.Context) error {
	return c.String(http.StatusOK, robotsTxt)
}

func handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
	}

	switch {
	case code == http.StatusNotFound:
		_ = RenderStatus(c, code, a.Views.NotFound(a.viewConfig()))
	case code >= 500:
		a.logger.ErrorContext(c.Request().Context(), "request failed",
			"method", c.Request().Method,
			"uri", c.Request().RequestURI,
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			"error", err,
		)
		if isAPIRequest(c) {
			_ = c.JSON(code, map[string]string{"message": http.StatusText(code)})
			return
		}
		_ = RenderStatus(c, code, a.Views.ServerError(a.viewConfig()))
	default:
		a.Echo.DefaultHTTPErrorHandler(err, c)
	}
}

func isAPIRequest(c echo.Context) bool {
	return strings.HasPrefix(c.Request().URL.Path, "/api/")
}
