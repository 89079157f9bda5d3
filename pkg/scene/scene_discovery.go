package scene

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrUnknownScene is returned when a scene ID matches nothing
var ErrUnknownScene = errors.New("unknown scene")

// Built-in scene IDs
const (
	DefaultSceneID     = "default"
	RandomBallsSceneID = "random-balls"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`                 // Unique identifier
	DisplayName string `json:"displayName"`        // UI display name
	Description string `json:"description"`        // Optional description
	Type        string `json:"type"`               // "builtin" or "document"
	FilePath    string `json:"filePath,omitempty"` // Scene document path (document type only)
}

// BuiltinScenes lists the scenes that are constructed in code
func BuiltinScenes() []SceneInfo {
	return []SceneInfo{
		{
			ID:          DefaultSceneID,
			DisplayName: "Default Scene",
			Description: "Metal, glass and diffuse spheres on a checkered floor",
			Type:        "builtin",
		},
		{
			ID:          RandomBallsSceneID,
			DisplayName: "Random Balls",
			Description: "Seeded field of small random spheres around three large ones",
			Type:        "builtin",
		},
	}
}

// NewBuiltinScene constructs the built-in scene with the given ID.
// seed only affects generated scenes.
func NewBuiltinScene(id string, seed int64, aspectRatio float64) (*Scene, error) {
	switch id {
	case DefaultSceneID:
		return NewDefaultScene(aspectRatio), nil
	case RandomBallsSceneID:
		return NewRandomBallsScene(seed, aspectRatio), nil
	default:
		return nil, fmt.Errorf("%q: %w", id, ErrUnknownScene)
	}
}

// ListDocumentScenes scans dir for JSON scene documents.
// A missing directory yields an empty list.
func ListDocumentScenes(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []SceneInfo{}, nil
		}
		return nil, fmt.Errorf("failed to stat scenes directory: %w", err)
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	scenes := make([]SceneInfo, 0, len(files))
	for _, filePath := range files {
		name := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
		scenes = append(scenes, SceneInfo{
			ID:          "file:" + name,
			DisplayName: titleCase(name),
			Type:        "document",
			FilePath:    filePath,
		})
	}

	// Sort scenes by display name
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// titleCase converts a file name like "my-scene_v2" to "My Scene V2"
func titleCase(s string) string {
	// Replace hyphens and underscores with spaces
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}

	return strings.Join(words, " ")
}
