package server

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/scene"
	"github.com/df07/go-pathtracer/pkg/texture"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	GeometryName string                 `json:"geometryName,omitempty"`
	GeometryType string                 `json:"geometryType,omitempty"`
	MaterialName string                 `json:"materialName,omitempty"`
	MaterialType string                 `json:"materialType,omitempty"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	UV           [2]float64             `json:"uv"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// inspectPixel casts an unjittered ray through the center of pixel (x, y), row 0 at the top
func inspectPixel(sceneObj *scene.Scene, width, height, pixelX, pixelY int) (core.Ray, geometry.HitInfo, scene.Item, bool) {
	s := (float64(pixelX) + 0.5) / float64(width)
	t := (float64(height-1-pixelY) + 0.5) / float64(height)
	ray := sceneObj.Camera.GetRay(s, t)

	hit, item, ok := sceneObj.Hit(ray, 0.001, math.Inf(1))
	return ray, hit, item, ok
}

// extractMaterialInfo describes a material with its texture names resolved
func extractMaterialInfo(sceneObj *scene.Scene, mat material.Material) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch m := mat.(type) {
	case *material.Lambertian:
		properties["texture"] = sceneObj.Textures.Name(m.Texture)
		properties["color"] = textureHex(sceneObj.Textures.Get(m.Texture))
		return "lambertian", properties

	case *material.Metal:
		properties["texture"] = sceneObj.Textures.Name(m.Texture)
		properties["color"] = textureHex(sceneObj.Textures.Get(m.Texture))
		properties["fuzz"] = m.Fuzz
		return "metal", properties

	case *material.Dielectric:
		properties["refractiveIndex"] = m.RefractiveIndex
		properties["color"] = "#ffffff" // Clear glass
		return "dielectric", properties

	case *material.Light:
		properties["texture"] = sceneObj.Textures.Name(m.Texture)
		properties["brightness"] = [3]float64{m.Brightness.X, m.Brightness.Y, m.Brightness.Z}
		return "light", properties
	}

	return "unknown", properties
}

// extractGeometryInfo extracts detailed geometry information
func extractGeometryInfo(geo geometry.Geometry) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch g := geo.(type) {
	case *geometry.Sphere:
		properties["center"] = [3]float64{g.Center.X, g.Center.Y, g.Center.Z}
		properties["radius"] = g.Radius
		return "sphere", properties

	case *geometry.Plane:
		properties["center"] = [3]float64{g.Center.X, g.Center.Y, g.Center.Z}
		properties["u"] = [3]float64{g.U.X, g.U.Y, g.U.Z}
		properties["v"] = [3]float64{g.V.X, g.V.Y, g.V.Z}
		return "plane", properties
	}

	return "unknown", properties
}

// textureHex samples a texture's center as a display color
func textureHex(tex texture.Texture) string {
	c := tex.Color(0.5, 0.5).Clamp(0, 1)
	return fmt.Sprintf("#%02x%02x%02x", int(c.X*255), int(c.Y*255), int(c.Z*255))
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(c echo.Context) error {
	req, err := parseSceneParams(c.QueryParams())
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
	}

	pixelX, err := strconv.Atoi(c.QueryParam("x"))
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid x coordinate")
	}
	pixelY, err := strconv.Atoi(c.QueryParam("y"))
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid y coordinate")
	}
	if pixelX < 0 || pixelX >= req.Width || pixelY < 0 || pixelY >= req.Height {
		return jsonError(c, http.StatusBadRequest, "Pixel coordinates out of bounds")
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		return sceneError(c, err)
	}
	if err := sceneObj.Validate(); err != nil {
		return jsonError(c, http.StatusUnprocessableEntity, err.Error())
	}

	ray, hit, item, ok := inspectPixel(sceneObj, req.Width, req.Height, pixelX, pixelY)
	if !ok {
		return c.JSON(http.StatusOK, InspectResponse{Hit: false})
	}

	geo := sceneObj.Geometries.Get(item.Geometry)
	mat := sceneObj.Materials.Get(item.Material)
	geometryType, geometryProps := extractGeometryInfo(geo)
	materialType, materialProps := extractMaterialInfo(sceneObj, mat)

	normal := hit.Normal()
	return c.JSON(http.StatusOK, InspectResponse{
		Hit:          true,
		GeometryName: sceneObj.Geometries.Name(item.Geometry),
		GeometryType: geometryType,
		MaterialName: sceneObj.Materials.Name(item.Material),
		MaterialType: materialType,
		Point:        [3]float64{hit.Point.X, hit.Point.Y, hit.Point.Z},
		Normal:       [3]float64{normal.X, normal.Y, normal.Z},
		UV:           [2]float64{hit.U, hit.V},
		Distance:     hit.T,
		FrontFace:    ray.Direction.Dot(normal) < 0,
		Properties: map[string]interface{}{
			"geometry": geometryProps,
			"material": materialProps,
		},
	})
}
