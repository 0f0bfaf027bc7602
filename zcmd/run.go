package zcmd

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"go.brendoncarroll.net/star"
	"go.brendoncarroll.net/stdctx/logctx"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	zdebug "github.com/DustinCampbell/ZDebug-sub001"
	"github.com/DustinCampbell/ZDebug-sub001/zsave"
	"github.com/DustinCampbell/ZDebug-sub001/zterm"
	"github.com/DustinCampbell/ZDebug-sub001/zvm"
)

// stepsPerSlice is how many instructions run between checks of the machine's state.
const stepsPerSlice = 100_000

var run = star.Command{
	Metadata: star.Metadata{
		Short: "play a story on this terminal",
	},
	Flags: []star.IParam{configParam, slotParam},
	Pos:   []star.IParam{storyParam},
	F: func(c star.Context) error {
		cfg := configParam.Load(c)
		story := storyParam.Load(c)
		l, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer l.Sync()
		ctx := logctx.NewContext(c.Context, l)

		saves, err := zsave.Open(ctx, cfg.Saves.Path)
		if err != nil {
			return err
		}
		defer saves.Close()

		screen := zterm.New(c.StdOut, cfg.Dimensions(zterm.Size(os.Stdout)))
		env := cfg.Env(zvm.Env{
			Screen:    screen,
			Sound:     screen,
			Log:       zvm.NewZapLog(l),
			Snapshots: saves.Snapshotter(zdebug.StoryID(story), slotFor(c, cfg)),
		})
		vm, err := zvm.New(story, env)
		if err != nil {
			return err
		}
		logctx.Infof(ctx, "running story %v version %d", vm.StoryID(), vm.Version())
		return Play(ctx, vm, c.StdIn)
	},
}

// Play runs vm until it halts, answering its input requests from in.
// It returns nil if in is exhausted while the machine is waiting for input.
func Play(ctx context.Context, vm *zvm.Machine, in io.Reader) error {
	kb := newKeyboard(in)
	reqs := make(chan zvm.InputKind)
	resps := make(chan string)
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		defer close(resps)
		for kind := range reqs {
			s, err := kb.read(kind)
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}
			select {
			case resps <- s:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})
	eg.Go(func() error {
		defer close(reqs)
		return drive(ctx, vm, reqs, resps)
	})
	return eg.Wait()
}

func drive(ctx context.Context, vm *zvm.Machine, reqs chan<- zvm.InputKind, resps <-chan string) error {
	for {
		vm.Run(ctx, stepsPerSlice)
		if err := ctx.Err(); err != nil {
			return err
		}
		switch vm.State() {
		case zvm.Halted:
			logctx.Infof(ctx, "vm ran for %d steps", vm.Steps())
			return vm.Err()
		case zvm.AwaitingInput:
			req := vm.InputRequest()
			select {
			case reqs <- req.Kind:
			case <-ctx.Done():
				return ctx.Err()
			}
			var s string
			var ok bool
			select {
			case s, ok = <-resps:
			case <-ctx.Done():
				return ctx.Err()
			}
			if !ok {
				logctx.Infof(ctx, "input closed after %d steps", vm.Steps())
				return nil
			}
			var err error
			if req.Kind == zvm.CharInput {
				r, _ := utf8.DecodeRuneInString(s)
				err = vm.SubmitChar(r)
			} else {
				err = vm.SubmitLine(s)
			}
			if err != nil {
				return err
			}
		}
	}
}

type keyboard struct {
	br *bufio.Reader
	// f is set when input is an interactive terminal, for single key reads.
	f *os.File
}

func newKeyboard(in io.Reader) *keyboard {
	kb := &keyboard{br: bufio.NewReader(in)}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		kb.f = f
	}
	return kb
}

func (kb *keyboard) read(kind zvm.InputKind) (string, error) {
	if kind == zvm.CharInput {
		if kb.f != nil && kb.br.Buffered() == 0 {
			r, err := zterm.ReadKey(kb.f)
			return string(r), err
		}
		r, _, err := kb.br.ReadRune()
		return string(r), err
	}
	line, err := kb.br.ReadString('\n')
	if errors.Is(err, io.EOF) && line != "" {
		err = nil
	}
	return strings.TrimRight(line, "\r\n"), err
}
