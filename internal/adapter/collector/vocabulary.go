// Package collector forwards leveled application events to a remote log
// collector. Delivery runs on a background worker and never blocks or fails
// the operation that produced the event.
package collector

import "strings"

// Stack identifies the tier an event comes from.
type Stack string

const (
	StackBackend  Stack = "backend"
	StackFrontend Stack = "frontend"
)

// ParseStack converts s to a Stack, case-insensitively. Unknown values fall
// back to StackBackend.
func ParseStack(s string) Stack {
	if Stack(strings.ToLower(s)) == StackFrontend {
		return StackFrontend
	}
	return StackBackend
}

// Level is the severity of an event.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
	LevelFatal Level = "fatal"
)

// ParseLevel converts s to a Level, case-insensitively. Unknown values fall
// back to LevelInfo.
func ParseLevel(s string) Level {
	switch l := Level(strings.ToLower(s)); l {
	case LevelDebug, LevelInfo, LevelWarn, LevelError, LevelFatal:
		return l
	default:
		return LevelInfo
	}
}

// Package names the component an event was emitted from. The accepted
// names depend on the stack.
type Package string

const (
	PackageCache      Package = "cache"
	PackageController Package = "controller"
	PackageCronJob    Package = "cron_job"
	PackageDB         Package = "db"
	PackageDomain     Package = "domain"
	PackageHandler    Package = "handler"
	PackageRepository Package = "repository"
	PackageRoute      Package = "route"
	PackageService    Package = "service"

	PackageAPI       Package = "api"
	PackageComponent Package = "component"
	PackageHook      Package = "hook"
	PackagePage      Package = "page"
	PackageState     Package = "state"
	PackageStyle     Package = "style"
)

var packages = map[Stack]map[Package]struct{}{
	StackBackend: {
		PackageCache: {}, PackageController: {}, PackageCronJob: {},
		PackageDB: {}, PackageDomain: {}, PackageHandler: {},
		PackageRepository: {}, PackageRoute: {}, PackageService: {},
	},
	StackFrontend: {
		PackageAPI: {}, PackageComponent: {}, PackageHook: {},
		PackagePage: {}, PackageState: {}, PackageStyle: {},
	},
}

// DefaultPackage returns the package unknown names are coerced to.
func DefaultPackage(stack Stack) Package {
	if stack == StackFrontend {
		return PackageComponent
	}
	return PackageHandler
}

// ParsePackage converts name to a Package valid for stack. Names outside the
// stack's vocabulary are coerced to DefaultPackage rather than rejected; ok
// reports whether name was recognized.
func ParsePackage(stack Stack, name string) (pkg Package, ok bool) {
	p := Package(strings.ToLower(name))
	if _, ok := packages[stack][p]; ok {
		return p, true
	}
	return DefaultPackage(stack), false
}
