package xml2texi

import "go.uber.org/zap"

func (o Options) log() *zap.SugaredLogger {
	if o.Logger == nil {
		return zap.NewNop().Sugar()
	}
	return o.Logger
}

// Warnf reports a recoverable problem with the document unless Quiet is set.
func (o Options) Warnf(format string, v ...interface{}) {
	if o.Quiet && !o.Verbose {
		return
	}
	o.log().Warnf("xml2texi: "+format, v...)
}

// Debugf logs details only shown in verbose mode.
func (o Options) Debugf(format string, v ...interface{}) {
	if !o.Verbose {
		return
	}
	o.log().Debugf("xml2texi: "+format, v...)
}
