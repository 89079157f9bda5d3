package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-pathtracer/pkg/loaders"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

const documentScenePrefix = "file:"

// RenderRequest holds the query parameters of a render or inspect call
type RenderRequest struct {
	Scene          string              // Built-in ID or "file:<name>"
	Width          int                 // Image width
	Height         int                 // Image height
	Samples        int                 // Samples per pixel
	MaxReflections int                 // Bounce limit ("depth")
	ToneMapper     renderer.ToneMapper // "clamp" or "uncharted"
	Seed           int64               // Scene generator and sampler seed
	Format         loaders.Format      // Response encoding
}

// parseSceneParams reads the parameters shared by render and inspect
func parseSceneParams(values url.Values) (*RenderRequest, error) {
	defaults := renderer.DefaultConfig()
	req := &RenderRequest{Scene: values.Get("scene")}
	if req.Scene == "" {
		req.Scene = scene.DefaultSceneID
	}

	var err error
	if req.Width, err = parseIntParam(values, "width", defaults.Width, 1, 2000); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(values, "height", defaults.Height, 1, 2000); err != nil {
		return nil, err
	}
	if req.Seed, err = parseInt64Param(values, "seed", defaults.Seed); err != nil {
		return nil, err
	}
	return req, nil
}

// parseRenderRequest parses request parameters
func parseRenderRequest(values url.Values) (*RenderRequest, error) {
	req, err := parseSceneParams(values)
	if err != nil {
		return nil, err
	}

	if req.Samples, err = parseIntParam(values, "samples", 10, 1, 10000); err != nil {
		return nil, err
	}
	if req.MaxReflections, err = parseIntParam(values, "depth", renderer.DefaultConfig().MaxReflections, 0, 1000); err != nil {
		return nil, err
	}

	req.ToneMapper = renderer.ToneMapClamp
	if value := values.Get("toneMapper"); value != "" {
		if req.ToneMapper, err = renderer.ParseToneMapper(value); err != nil {
			return nil, err
		}
	}

	req.Format = loaders.FormatPNG
	if value := values.Get("format"); value != "" {
		if req.Format, err = loaders.FormatForPath("image." + value); err != nil {
			return nil, err
		}
	}

	return req, nil
}

// Config converts the request into a renderer configuration
func (req *RenderRequest) Config() renderer.Config {
	config := renderer.DefaultConfig()
	config.Width = req.Width
	config.Height = req.Height
	config.SamplesPerPixel = req.Samples
	config.MaxReflections = req.MaxReflections
	config.ToneMapper = req.ToneMapper
	config.Seed = req.Seed
	return config
}

// createScene builds a built-in scene or loads a discovered document
func (s *Server) createScene(req *RenderRequest) (*scene.Scene, error) {
	if !strings.HasPrefix(req.Scene, documentScenePrefix) {
		return scene.NewBuiltinScene(req.Scene, req.Seed, float64(req.Width)/float64(req.Height))
	}

	if s.scenesDir == "" {
		return nil, fmt.Errorf("%q: %w", req.Scene, scene.ErrUnknownScene)
	}
	documents, err := scene.ListDocumentScenes(s.scenesDir)
	if err != nil {
		return nil, err
	}
	for _, info := range documents {
		if info.ID == req.Scene {
			return loaders.LoadScene(info.FilePath)
		}
	}
	return nil, fmt.Errorf("%q: %w", req.Scene, scene.ErrUnknownScene)
}

// sceneError maps scene construction failures to a response
func sceneError(c echo.Context, err error) error {
	if errors.Is(err, scene.ErrUnknownScene) {
		return jsonError(c, http.StatusNotFound, err.Error())
	}
	return jsonError(c, http.StatusUnprocessableEntity, err.Error())
}

// handleRender renders the requested scene and responds with the encoded image
func (s *Server) handleRender(c echo.Context) error {
	req, err := parseRenderRequest(c.QueryParams())
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		return sceneError(c, err)
	}

	renderID := fmt.Sprintf("render-%d", s.renders.Add(1))
	logger := NewWebLogger(renderID, s.console, s.logger)
	logger.Printf("Scene %s at %dx%d, %d samples\n", req.Scene, req.Width, req.Height, req.Samples)

	config := req.Config()
	pixels, err := renderer.Render(c.Request().Context(), sceneObj, config, renderer.Options{Logger: logger})
	if err != nil {
		if c.Request().Context().Err() != nil {
			// Client went away; nothing to write to
			return nil
		}
		return jsonError(c, http.StatusInternalServerError, "Render error: "+err.Error())
	}

	var buf bytes.Buffer
	img := renderer.ToImage(pixels, config.Width, config.Height)
	if err := loaders.EncodeImage(&buf, req.Format, img); err != nil {
		return jsonError(c, http.StatusInternalServerError, "Failed to encode image: "+err.Error())
	}
	return c.Blob(http.StatusOK, contentType(req.Format), buf.Bytes())
}

func contentType(format loaders.Format) string {
	return "image/" + string(format)
}
