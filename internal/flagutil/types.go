package flagutil

import "github.com/streamzlib/zinflate/internal/log"

// LogLevelFlag parses a string into a log.Level. This type implements the
// flag.Value interface.
type LogLevelFlag struct {
	val log.Level
	set bool
}

func (f *LogLevelFlag) Level() log.Level {
	if !f.set {
		return log.ERROR
	}
	return f.val
}

func (f *LogLevelFlag) Set(v string) error {
	l, err := log.ParseLevel(v)
	if err != nil {
		return err
	}
	f.val = l
	f.set = true
	return nil
}

func (f *LogLevelFlag) String() string {
	if !f.set {
		return ""
	}
	return f.val.String()
}
