package widget

// Stock widget kinds shipped with every host.  The value is the renderer
// identifier the front end resolves to a concrete component.
var builtins = map[string]string{
	"task-list":        "TaskListWidget",
	"task-board":       "TaskBoardWidget",
	"task-stats":       "TaskStatsWidget",
	"project-overview": "ProjectOverviewWidget",
	"project-progress": "ProjectProgressWidget",
	"version-timeline": "VersionTimelineWidget",
	"version-list":     "VersionListWidget",
	"stats-card":       "StatsCardWidget",
	"chart":            "ChartWidget",
	"text":             "TextWidget",
	"markdown":         "MarkdownWidget",
	"activity-feed":    "ActivityFeedWidget",
}

// RegisterBuiltins adds the stock kinds to r.  Existing entries with the
// same tag are overwritten, so call it before host-specific registrations.
func RegisterBuiltins(r *Registry[string]) {
	for kind, impl := range builtins {
		_ = r.Register(kind, impl) // tags are non-empty literals
	}
}
