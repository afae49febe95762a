package sketch

import (
	"image"
)

// Job tracks a background describe and generate chain.
type Job struct {
	done chan struct{}

	description string
	image       image.Image

	err error
}

func newJob() *Job {
	return &Job{
		done: make(chan struct{}),
	}
}

func (j *Job) finish(description string, img image.Image, err error) {
	j.description = description
	j.image = img
	j.err = err

	close(j.done)
}

func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Wait blocks until the chain finishes and returns its first error.
func (j *Job) Wait() error {
	<-j.done
	return j.err
}

// Err returns nil while the job is running.
func (j *Job) Err() error {
	select {
	case <-j.done:
		return j.err
	default:
		return nil
	}
}

func (j *Job) Description() string {
	<-j.done
	return j.description
}

func (j *Job) Image() image.Image {
	<-j.done
	return j.image
}
