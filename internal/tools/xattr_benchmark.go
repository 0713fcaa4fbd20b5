package tools

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"io"
	mathrand "math/rand"

	"github.com/sirupsen/logrus"

	"xattrtest/pkg/store"
	"xattrtest/pkg/utils"
)

// Benchmark runs the create, setxattr, getxattr and unlink phases in order
// against a Store, timing each and calling the hook after it.
type Benchmark struct {
	cfg   *Config
	store store.Store
	hook  PhaseHook
	out   io.Writer

	rng     *mathrand.Rand
	entropy io.Reader
}

func NewBenchmark(cfg *Config, st store.Store, hook PhaseHook, out io.Writer) *Benchmark {
	return &Benchmark{
		cfg:     cfg,
		store:   st,
		hook:    hook,
		out:     out,
		rng:     mathrand.New(mathrand.NewSource(cfg.Seed)),
		entropy: rand.Reader,
	}
}

func (b *Benchmark) Run() error {
	if err := b.CreateFiles(); err != nil {
		return err
	}
	if err := b.SetXattrs(); err != nil {
		return err
	}
	if err := b.GetXattrs(); err != nil {
		return err
	}
	if !b.cfg.Keep {
		if err := b.UnlinkFiles(); err != nil {
			return err
		}
	}
	return nil
}

func (b *Benchmark) progress(op string, i int, file string) {
	if b.cfg.Nth != 0 && i%b.cfg.Nth == 0 {
		fmt.Fprintf(b.out, "%s: %s\n", op, file)
	}
}

func (b *Benchmark) finish(label string, start Timeval) error {
	elapsed := Now().Sub(start)
	fmt.Fprintf(b.out, "%s %s seconds\n", label, elapsed)
	logrus.WithFields(logrus.Fields{
		"files":  b.cfg.Files,
		"xattrs": b.cfg.Xattrs,
	}).Debugf("%s done in %s seconds", label, elapsed)
	return b.hook.Run(postPhase)
}

// valueSize is the stored length of the next attribute.
func (b *Benchmark) valueSize() int {
	if b.cfg.RandomSize {
		return b.rng.Intn(b.cfg.Size-MinRandomSize) + MinRandomSize
	}
	return b.cfg.Size
}

func (b *Benchmark) CreateFiles() error {
	start := Now()
	for i := 1; i <= b.cfg.Files; i++ {
		file := utils.FileName(b.cfg.Path, i)
		b.progress("create", i, file)

		if err := b.store.Create(file); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"file":  file,
				"errno": errnoOf(err),
			}).Error("Failed to create file")
			return err
		}
	}
	return b.finish("create:  ", start)
}

func (b *Benchmark) SetXattrs() error {
	value := make([]byte, XattrSizeMax)

	start := Now()
	for i := 1; i <= b.cfg.Files; i++ {
		file := utils.FileName(b.cfg.Path, i)
		b.progress("setxattr", i, file)

		for j := 1; j <= b.cfg.Xattrs; j++ {
			size := b.valueSize()
			name := utils.XattrName(j)

			if b.cfg.RandomValue {
				if n, err := io.ReadFull(b.entropy, value[:size]); err != nil {
					logrus.WithError(err).Errorf("Failed to read random bytes, wanted %d got %d", size, n)
					return fmt.Errorf("reading %d random bytes: %w", size, err)
				}
			} else {
				utils.FillPattern(value, size)
			}

			if err := b.store.SetXattr(file, name, value[:size]); err != nil {
				logrus.WithError(err).WithFields(logrus.Fields{
					"file":  file,
					"xattr": name,
					"size":  size,
					"errno": errnoOf(err),
				}).Error("Failed to set xattr")
				return err
			}
		}
	}
	return b.finish("setxattr:", start)
}

func (b *Benchmark) GetXattrs() error {
	value := make([]byte, XattrSizeMax)
	expected := make([]byte, XattrSizeMax)

	start := Now()
	for i := 1; i <= b.cfg.Files; i++ {
		file := utils.FileName(b.cfg.Path, i)
		b.progress("getxattr", i, file)

		for j := 1; j <= b.cfg.Xattrs; j++ {
			name := utils.XattrName(j)

			n, err := b.store.GetXattr(file, name, value)
			if err != nil {
				logrus.WithError(err).WithFields(logrus.Fields{
					"file":  file,
					"xattr": name,
					"errno": errnoOf(err),
				}).Error("Failed to get xattr")
				return err
			}

			if b.cfg.Verify {
				if err := verifyValue(file, name, value[:n], expected); err != nil {
					logrus.WithError(err).WithFields(logrus.Fields{
						"file":  file,
						"xattr": name,
						"errno": errnoOf(err),
					}).Error("Failed to verify xattr")
					return err
				}
			}
		}
	}
	return b.finish("getxattr:", start)
}

// verifyValue rebuilds the pattern announced by the size header of actual
// into scratch and compares the two.
func verifyValue(file string, name string, actual []byte, scratch []byte) error {
	size, err := utils.ParsePatternSize(actual)
	if err != nil || size < 0 || size > len(scratch) {
		return &VerifyError{File: file, Attr: name, Actual: actual}
	}
	utils.FillPattern(scratch, size)
	expected := scratch[:size]
	if size != len(actual) || !bytes.Equal(expected, actual) {
		return &VerifyError{File: file, Attr: name, Expected: expected, Actual: actual}
	}
	return nil
}

func (b *Benchmark) UnlinkFiles() error {
	start := Now()
	for i := 1; i <= b.cfg.Files; i++ {
		file := utils.FileName(b.cfg.Path, i)
		b.progress("unlink", i, file)

		if err := b.store.Remove(file); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"file":  file,
				"errno": errnoOf(err),
			}).Error("Failed to unlink file")
			return err
		}
	}
	return b.finish("unlink:  ", start)
}
