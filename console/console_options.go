package console

import (
	"fmt"

	"nesgo/speakers"
)

func (c *Console) SetCart(path string) error {
	c.cartPath = path
	return nil
}
func (c *Console) SetVerbose(verbose bool) error {
	c.verbose = verbose
	return nil
}
func (c *Console) SetFreeRun(freeRun bool) error {
	c.freeRun = freeRun
	return nil
}
func (c *Console) SetAudioLibrary(name speakers.AudioLib) error {
	c.audioLib = name
	return nil
}
func (c *Console) SetAudioLogging(log bool) error {
	c.audioLog = log
	return nil
}
func (c *Console) SetSpriteLimit(limit bool) error {
	c.spriteLimit = limit
	return nil
}

// SetOptions applies each option in order, matching the teacher's
// nesInternal.GoNes.SetOptions.
func (c *Console) SetOptions(options ...func(*Console) error) error {
	for i, option := range options {
		if err := option(c); err != nil {
			return fmt.Errorf("console: failed to set option index %d: %w", i, err)
		}
	}
	return nil
}

func CartPath(path string) func(*Console) error {
	return func(c *Console) error { return c.SetCart(path) }
}

func Verbose(verbose bool) func(*Console) error {
	return func(c *Console) error { return c.SetVerbose(verbose) }
}

func FreeRun(freeRun bool) func(*Console) error {
	return func(c *Console) error { return c.SetFreeRun(freeRun) }
}

func AudioLibrary(name speakers.AudioLib) func(*Console) error {
	return func(c *Console) error { return c.SetAudioLibrary(name) }
}

func AudioLogging(log bool) func(*Console) error {
	return func(c *Console) error { return c.SetAudioLogging(log) }
}

func SpriteLimit(limit bool) func(*Console) error {
	return func(c *Console) error { return c.SetSpriteLimit(limit) }
}
