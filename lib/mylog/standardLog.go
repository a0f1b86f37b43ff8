package mylog

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/zenexa/ghlbridge/lib/mycontext"
)

var severityRank = map[Severity]int{
	SeverityDebug: 0,
	SeverityInfo:  1,
	SeverityWarn:  2,
	SeverityError: 3,
}

type standardLogger struct {
	componentName string
	minRank       int
}

func newStandardLogger(componentName string) Logger {
	return standardLogger{
		componentName: componentName,
		minRank:       rankFromEnv(),
	}
}

func rankFromEnv() int {
	level := strings.ToUpper(os.Getenv("LOG_LEVEL"))
	rank, found := severityRank[Severity(level)]
	if !found {
		return severityRank[SeverityInfo]
	}

	return rank
}

func (l standardLogger) Log(ctx context.Context, traceLabel string, severity Severity, format string, a ...any) {
	if severityRank[severity] < l.minRank {
		return
	}

	trace := mycontext.GetTraceUID(ctx)
	fmt.Fprintf(os.Stderr, "%s - %s - %s - %s - %s\n", l.componentName, trace, traceLabel, string(severity), fmt.Sprintf(format, a...))
}
