package widgets

import (
	"fmt"

	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op/clip"
)

type filter struct {
	Required key.Modifiers
	Optional key.Modifiers
	names    []key.Name
}

type Shortcut struct {
	Key filter
	F   func(key.Name, key.Modifiers)
}

// Shortcuts dispatches key presses, and optionally primary clicks, received
// anywhere in the window.
type Shortcuts struct {
	receiver     any
	eventFilters []event.Filter
	shortcuts    map[key.Name]Shortcut
	onClick      func()
}

func NewShortcut(required, optional key.Modifiers, names ...key.Name) filter {
	return filter{
		Required: required,
		Optional: optional,
		names:    names,
	}
}

// NewShortcuts does not allow multiple identical non-modifying keys
// cause it uses map for matching internally.
func NewShortcuts(receiver any, shortcuts ...Shortcut) (ss Shortcuts) {
	if len(shortcuts) == 0 {
		panic("no shortcut provided")
	}

	ss.receiver = receiver
	ss.eventFilters = []event.Filter{}
	ss.shortcuts = make(map[key.Name]Shortcut, len(shortcuts))
	for _, s := range shortcuts {
		for _, keyName := range s.Key.names {
			ss.eventFilters = append(ss.eventFilters,
				key.Filter{
					Required: s.Key.Required,
					Optional: s.Key.Optional,
					Name:     keyName,
				},
			)
			if _, ok := ss.shortcuts[keyName]; ok {
				panic(fmt.Errorf("repeated key: %s", keyName))
			}
			ss.shortcuts[keyName] = s
		}
	}

	return
}

// OnClick registers f for primary button presses.
func (ss *Shortcuts) OnClick(f func()) {
	ss.onClick = f
	ss.eventFilters = append(ss.eventFilters, pointer.Filter{
		Target: ss.receiver,
		Kinds:  pointer.Press,
	})
}

func (ss *Shortcuts) Match(gtx layout.Context) error {
	area := clip.Rect{Max: gtx.Constraints.Max}.Push(gtx.Ops)
	defer area.Pop()
	event.Op(gtx.Ops, ss.receiver)

	for {
		ev, ok := gtx.Event(ss.eventFilters...)
		if !ok {
			break
		}
		switch e := ev.(type) {
		case key.Event:
			if e.State != key.Press {
				continue
			}
			shortcut, ok := ss.shortcuts[e.Name]
			if !ok {
				continue
			}
			if e.Modifiers.Contain(shortcut.Key.Required) {
				shortcut.F(e.Name, e.Modifiers)
			}

		case pointer.Event:
			if e.Kind == pointer.Press && e.Buttons.Contain(pointer.ButtonPrimary) && ss.onClick != nil {
				ss.onClick()
			}

		default:
			return fmt.Errorf("unknown event[%T]: %v", ev, ev)
		}
	}

	return nil
}
