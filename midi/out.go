package midi

import (
	"strings"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// OutPorts lists the names of the available MIDI outputs
func OutPorts() []string {
	var names []string
	for _, p := range gomidi.GetOutPorts() {
		names = append(names, p.String())
	}
	return names
}

// OpenOut opens an output by name. An exact match wins; otherwise the first
// port whose name contains name (ignoring case) is used.
func OpenOut(name string) (func(gomidi.Message) error, error) {
	port, ok := findOut(gomidi.GetOutPorts(), name)
	if !ok {
		return nil, fault.Wrap(fault.New("no such midi output"),
			ftag.With(ftag.NotFound),
			fmsg.WithDesc("find output "+name, "MIDI output "+name+" not found"))
	}

	send, err := gomidi.SendTo(port)
	if err != nil {
		return nil, fault.Wrap(err, fmsg.WithDesc("open output "+port.String(), "cannot open MIDI output"))
	}
	return send, nil
}

type named interface{ String() string }

func matchPort[P named](ports []P, name string) (P, bool) {
	var zero P
	if name == "" {
		return zero, false
	}
	for _, p := range ports {
		if p.String() == name {
			return p, true
		}
	}
	want := strings.ToLower(name)
	for _, p := range ports {
		if strings.Contains(strings.ToLower(p.String()), want) {
			return p, true
		}
	}
	return zero, false
}

func findOut(ports []drivers.Out, name string) (drivers.Out, bool) {
	return matchPort(ports, name)
}
