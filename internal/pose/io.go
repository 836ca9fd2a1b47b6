package pose

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Decode reads a JSON array of keypoints and validates it.
func Decode(r io.Reader) (PointSet, error) {
	var ps PointSet
	if err := json.NewDecoder(r).Decode(&ps); err != nil {
		return nil, fmt.Errorf("failed to decode keypoints: %w", err)
	}
	if err := ps.Validate(); err != nil {
		return nil, err
	}
	return ps, nil
}

// Encode writes ps as an indented JSON array.
func Encode(w io.Writer, ps PointSet) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if ps == nil {
		ps = PointSet{}
	}
	if err := enc.Encode(ps); err != nil {
		return fmt.Errorf("failed to encode keypoints: %w", err)
	}
	return nil
}

// ReadFile loads a keypoint file written by WriteFile.
func ReadFile(path string) (PointSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open keypoints: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// WriteFile saves ps as JSON at path.
func WriteFile(path string, ps PointSet) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create keypoints file: %w", err)
	}
	if err := Encode(f, ps); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
