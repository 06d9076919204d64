package menu

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/rs/zerolog"
	"github.com/zhengda-lu/scanmenu/internal/i18n"
	"github.com/zhengda-lu/scanmenu/internal/launcher"
	"github.com/zhengda-lu/scanmenu/internal/notify"
	"github.com/zhengda-lu/scanmenu/internal/selection"
)

const (
	ItemName       = "scanmenu::openscanner"
	BackgroundName = "scanmenu::openscanner_directory"
	DefaultIcon    = "clamtk"
)

// Launcher starts the scanner for one escaped path argument.
type Launcher interface {
	Launch(quoted string) error
}

// Handler receives activation callbacks from the host.
type Handler interface {
	OnItemActivate(e selection.Entry)
	OnBackgroundActivate(e selection.Entry)
}

// Item is a context-menu entry offered to the host.
type Item struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Tip   string `json:"tip"`
	Icon  string `json:"icon"`

	activate func()
}

// Activate runs the callback bound to the item.
func (i Item) Activate() {
	if i.activate != nil {
		i.activate()
	}
}

// Adapter maps host selections onto scanner launches. It holds no mutable
// state, so any number of activations may run back to back or concurrently.
type Adapter struct {
	launcher Launcher
	tr       i18n.Translator
	notifier notify.Notifier
	log      zerolog.Logger
	icon     string
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithTranslator sets the label catalog. Defaults to i18n.PassThrough.
func WithTranslator(tr i18n.Translator) Option {
	return func(a *Adapter) { a.tr = tr }
}

// WithNotifier sets where launch failures are reported. Defaults to notify.Nop.
func WithNotifier(n notify.Notifier) Option {
	return func(a *Adapter) { a.notifier = n }
}

// WithLogger sets the logger. Defaults to zerolog.Nop().
func WithLogger(l zerolog.Logger) Option {
	return func(a *Adapter) { a.log = l }
}

// WithIcon sets the icon name attached to every item.
func WithIcon(icon string) Option {
	return func(a *Adapter) { a.icon = icon }
}

// New returns an Adapter that launches scans through l. A nil l, including
// a nil pointer of a concrete type, makes every scan fail with
// LaunchFailedError.
func New(l Launcher, opts ...Option) *Adapter {
	if isNil(l) {
		l = nil
	}
	a := &Adapter{
		launcher: l,
		tr:       i18n.PassThrough{},
		notifier: notify.Nop{},
		log:      zerolog.Nop(),
		icon:     DefaultIcon,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// FileItems returns the item trigger for sel. Only a single selected entry
// is offered a scan; any other count yields no items.
func (a *Adapter) FileItems(sel selection.Selection) []Item {
	if len(sel) != 1 {
		a.log.Debug().Int("selected", len(sel)).Msg("item trigger not offered")
		return nil
	}

	e := sel[0]
	return []Item{{
		Name:     ItemName,
		Label:    a.tr.Sprintf(i18n.ItemLabel),
		Tip:      a.tr.Sprintf(i18n.ItemTip, e.Name),
		Icon:     a.icon,
		activate: func() { a.OnItemActivate(e) },
	}}
}

// BackgroundItems returns the directory trigger for the browsed directory.
func (a *Adapter) BackgroundItems(dir selection.Entry) []Item {
	return []Item{{
		Name:     BackgroundName,
		Label:    a.tr.Sprintf(i18n.BackgroundLabel),
		Tip:      a.tr.Sprintf(i18n.BackgroundTip),
		Icon:     a.icon,
		activate: func() { a.OnBackgroundActivate(dir) },
	}}
}

// OnItemActivate scans e in response to the item trigger.
func (a *Adapter) OnItemActivate(e selection.Entry) {
	a.activate("item", e)
}

// OnBackgroundActivate scans the browsed directory e.
func (a *Adapter) OnBackgroundActivate(e selection.Entry) {
	a.activate("background", e)
}

// activate never lets an error or panic escape to the host.
func (a *Adapter) activate(trigger string, e selection.Entry) {
	log := a.log.With().Str("trigger", trigger).Str("uri", e.URI).Logger()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("scan activation panicked")
		}
	}()

	if err := a.Scan(e); err != nil {
		var invalid *selection.InvalidSelectionError
		var failed *launcher.LaunchFailedError
		switch {
		case errors.As(err, &invalid):
			log.Warn().Err(err).Msg("ignoring selection")
		case errors.As(err, &failed):
			log.Error().Err(err).Msg("scanner launch failed")
			a.report(log, e, err)
		default:
			log.Error().Err(err).Msg("scan activation failed")
		}
		return
	}
	log.Info().Msg("scanner launched")
}

// Scan decodes e and launches the scanner on it.
func (a *Adapter) Scan(e selection.Entry) error {
	arg, err := selection.Parse(e.URI)
	if err != nil {
		return err
	}
	if a.launcher == nil {
		return &launcher.LaunchFailedError{Err: fmt.Errorf("no launcher configured")}
	}
	return a.launcher.Launch(arg.Quoted)
}

func (a *Adapter) report(log zerolog.Logger, e selection.Entry, err error) {
	title := a.tr.Sprintf(i18n.LaunchFailed)
	msg := a.tr.Sprintf(i18n.LaunchFailedFor, e.Name, err)
	if nerr := a.notifier.Notify(title, msg); nerr != nil {
		log.Warn().Err(nerr).Msg("could not show notification")
	}
}

func isNil(l Launcher) bool {
	if l == nil {
		return true
	}
	v := reflect.ValueOf(l)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}
