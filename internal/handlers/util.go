package handlers

import (
	"fmt"
	"io"
)

func readAll(file io.ReadCloser) ([]byte, error) {
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return data, nil
}
