package walk

import "fmt"

// StatError is returned when the status of a path cannot be read.
type StatError struct {
	Err  error
	Path string
}

func (err StatError) Error() string {
	return fmt.Sprintf("unable to stat %s: %v", err.Path, err.Err)
}

func (err StatError) Unwrap() error {
	return err.Err
}

// ListError is returned when a directory cannot be opened or listed.
type ListError struct {
	Err  error
	Path string
}

func (err ListError) Error() string {
	return fmt.Sprintf("unable to list directory %s: %v", err.Path, err.Err)
}

func (err ListError) Unwrap() error {
	return err.Err
}
