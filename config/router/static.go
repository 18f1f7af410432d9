package router

import (
	"errors"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
)

var ErrAssetsNotMounted = errors.New("no asset filesystem mounted")

// MountAssets makes every regular file in fsys reachable by GET at its path,
// after explicit routes have been tried.
func (routerService *RouterService) MountAssets(fsys fs.FS) {
	routerService.assets = fsys
	routerService.logger.Info("Static assets mounted")
}

// ReadAsset returns the named file from the mounted asset filesystem.
func (routerService *RouterService) ReadAsset(name string) ([]byte, error) {
	if routerService.assets == nil {
		return nil, ErrAssetsNotMounted
	}
	return fs.ReadFile(routerService.assets, name)
}

// PageHandler serves one asset as an HTML page, or 404 when it is absent.
func (routerService *RouterService) PageHandler(name string) HandlerFunction {
	return func(ctx *RequestContext) *ServiceResult {
		body, err := routerService.ReadAsset(name)
		if err != nil {
			GetLogger(ctx).Error("Page not available", "page", name, "error", err)
			return NotFoundResult("Page not found")
		}
		return HTMLResult(body)
	}
}

func (routerService *RouterService) serveAsset(c *gin.Context) {
	if routerService.assets == nil {
		return
	}
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		return
	}

	name := strings.TrimPrefix(path.Clean("/"+c.Request.URL.Path), "/")
	if name == "" || !fs.ValidPath(name) {
		return
	}

	info, err := fs.Stat(routerService.assets, name)
	if err != nil || !info.Mode().IsRegular() {
		return
	}

	body, err := fs.ReadFile(routerService.assets, name)
	if err != nil {
		routerService.logger.WithCorrelationID(c.Request.Context()).Error("Failed to read asset", "path", name, "error", err)
		return
	}

	contentType := mime.TypeByExtension(path.Ext(name))
	if contentType == "" {
		contentType = http.DetectContentType(body)
	}

	c.Data(http.StatusOK, contentType, body)
	c.Abort()
}
