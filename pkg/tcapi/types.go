package tcapi

// Builds is one page of a build list.
type Builds struct {
	Count    int     `json:"count"              yaml:"count"`
	Href     string  `json:"href"               yaml:"href"`
	NextHref string  `json:"nextHref,omitempty" yaml:"nextHref,omitempty"`
	PrevHref string  `json:"prevHref,omitempty" yaml:"prevHref,omitempty"`
	Build    []Build `json:"build"              yaml:"build"`
}

// Build is the summary returned in build lists. Use GetMetadata for the
// full record.
type Build struct {
	ID                int64  `json:"id"                          yaml:"id"`
	BuildTypeID       string `json:"buildTypeId"                 yaml:"buildTypeId"`
	Number            string `json:"number"                      yaml:"number"`
	Status            string `json:"status"                      yaml:"status"`
	State             string `json:"state"                       yaml:"state"`
	BranchName        string `json:"branchName,omitempty"        yaml:"branchName,omitempty"`
	Href              string `json:"href"                        yaml:"href"`
	WebURL            string `json:"webUrl"                      yaml:"webUrl"`
	FinishOnAgentDate string `json:"finishOnAgentDate,omitempty" yaml:"finishOnAgentDate,omitempty"`
}

// BuildList is an embedded, unpaginated collection of build summaries.
type BuildList struct {
	Count int     `json:"count" yaml:"count"`
	Build []Build `json:"build" yaml:"build"`
}

// BuildTypeRef is the build configuration summary embedded in a build.
type BuildTypeRef struct {
	ID          string `json:"id"          yaml:"id"`
	Name        string `json:"name"        yaml:"name"`
	ProjectName string `json:"projectName" yaml:"projectName"`
	ProjectID   string `json:"projectId"   yaml:"projectId"`
	Href        string `json:"href"        yaml:"href"`
	WebURL      string `json:"webUrl"      yaml:"webUrl"`
}

// Triggered describes what started a build.
type Triggered struct {
	Type    string `json:"type"    yaml:"type"`
	Details string `json:"details" yaml:"details"`
	Date    string `json:"date"    yaml:"date"`
}

// VcsRootInstance identifies a VCS root attached to a build configuration.
type VcsRootInstance struct {
	ID        string `json:"id"          yaml:"id"`
	VcsRootID string `json:"vcs-root-id" yaml:"vcs-root-id"`
	Name      string `json:"name"        yaml:"name"`
	Href      string `json:"href"        yaml:"href"`
}

// VersionedSettingsRevision is the settings revision a build ran with.
type VersionedSettingsRevision struct {
	Version         string          `json:"version"           yaml:"version"`
	VcsRootInstance VcsRootInstance `json:"vcs-root-instance" yaml:"vcs-root-instance"`
}

// Agent is the build agent summary embedded in a build.
type Agent struct {
	Name   string `json:"name"   yaml:"name"`
	TypeID int64  `json:"typeId" yaml:"typeId"`
	WebURL string `json:"webUrl" yaml:"webUrl"`
}

// HrefRef is a link-only reference to a related collection.
type HrefRef struct {
	Href string `json:"href" yaml:"href"`
}

// CountedRef is a link to a related collection together with its size.
type CountedRef struct {
	Count int    `json:"count"          yaml:"count"`
	Href  string `json:"href,omitempty" yaml:"href,omitempty"`
}

// LastChanges holds the most recent changes of a build.
type LastChanges struct {
	Count  int                      `json:"count"  yaml:"count"`
	Change []map[string]interface{} `json:"change" yaml:"change"`
}

// Revisions holds the VCS revisions of a build.
type Revisions struct {
	Count    int                      `json:"count"    yaml:"count"`
	Revision []map[string]interface{} `json:"revision" yaml:"revision"`
}

// Properties is a counted list of name/value properties.
type Properties struct {
	Count    int                      `json:"count"              yaml:"count"`
	Href     string                   `json:"href,omitempty"     yaml:"href,omitempty"`
	Property []map[string]interface{} `json:"property,omitempty" yaml:"property,omitempty"`
}

// BuildDetails holds the BuildMetadata fields shared with the hydrated view.
type BuildDetails struct {
	StatusText                string                     `json:"statusText,omitempty"                yaml:"statusText,omitempty"`
	BuildType                 *BuildTypeRef              `json:"buildType,omitempty"                 yaml:"buildType,omitempty"`
	QueuedDate                string                     `json:"queuedDate,omitempty"                yaml:"queuedDate,omitempty"`
	StartDate                 string                     `json:"startDate,omitempty"                 yaml:"startDate,omitempty"`
	FinishDate                string                     `json:"finishDate,omitempty"                yaml:"finishDate,omitempty"`
	Triggered                 Triggered                  `json:"triggered"                           yaml:"triggered"`
	LastChanges               *LastChanges               `json:"lastChanges,omitempty"               yaml:"lastChanges,omitempty"`
	Revisions                 *Revisions                 `json:"revisions,omitempty"                 yaml:"revisions,omitempty"`
	VersionedSettingsRevision *VersionedSettingsRevision `json:"versionedSettingsRevision,omitempty" yaml:"versionedSettingsRevision,omitempty"`
	Agent                     *Agent                     `json:"agent,omitempty"                     yaml:"agent,omitempty"`
	ProblemOccurrences        *CountedRef                `json:"problemOccurrences,omitempty"        yaml:"problemOccurrences,omitempty"`
	Artifacts                 *CountedRef                `json:"artifacts,omitempty"                 yaml:"artifacts,omitempty"`
	RelatedIssues             *HrefRef                   `json:"relatedIssues,omitempty"             yaml:"relatedIssues,omitempty"`
	Properties                *Properties                `json:"properties,omitempty"                yaml:"properties,omitempty"`
	Statistics                *HrefRef                   `json:"statistics,omitempty"                yaml:"statistics,omitempty"`
	SnapshotDependencies      *BuildList                 `json:"snapshot-dependencies,omitempty"     yaml:"snapshot-dependencies,omitempty"`
	VcsLabels                 []map[string]interface{}   `json:"vcsLabels,omitempty"                 yaml:"vcsLabels,omitempty"`
	Customization             map[string]interface{}     `json:"customization,omitempty"             yaml:"customization,omitempty"`
}

// BuildMetadata is the full record of a single build.
type BuildMetadata struct {
	Build        `yaml:",inline"`
	BuildDetails `yaml:",inline"`

	// Changes links to the build's changes; resolve it with the changes
	// client or HydrateWithChanges.
	Changes *CountedRef `json:"changes,omitempty" yaml:"changes,omitempty"`
}

// BuildMetadataWithChangeMetadata is a BuildMetadata whose changes link has
// been replaced by the full metadata of every change in the build.
type BuildMetadataWithChangeMetadata struct {
	Build        `yaml:",inline"`
	BuildDetails `yaml:",inline"`

	Changes []ChangeMetadata `json:"changes" yaml:"changes"`
}

// WithChanges returns the hydrated view of m using changes.
func (m *BuildMetadata) WithChanges(changes []ChangeMetadata) BuildMetadataWithChangeMetadata {
	if changes == nil {
		changes = []ChangeMetadata{}
	}

	return BuildMetadataWithChangeMetadata{
		Build:        m.Build,
		BuildDetails: m.BuildDetails,
		Changes:      changes,
	}
}

// Changes is one page of a change list. Pagination is possible but rare.
type Changes struct {
	Href     string   `json:"href"               yaml:"href"`
	Count    int      `json:"count"              yaml:"count"`
	Change   []Change `json:"change,omitempty"   yaml:"change,omitempty"`
	NextHref string   `json:"nextHref,omitempty" yaml:"nextHref,omitempty"`
	PrevHref string   `json:"prevHref,omitempty" yaml:"prevHref,omitempty"`
}

// Change is the summary of a VCS commit returned in change lists.
type Change struct {
	ID       int64  `json:"id"       yaml:"id"`
	Version  string `json:"version"  yaml:"version"`
	Username string `json:"username" yaml:"username"`
	Date     string `json:"date"     yaml:"date"`
	Href     string `json:"href"     yaml:"href"`
	WebURL   string `json:"webUrl"   yaml:"webUrl"`
}

// User is a TeamCity user reference.
type User struct {
	ID       int64  `json:"id"       yaml:"id"`
	Username string `json:"username" yaml:"username"`
	Name     string `json:"name"     yaml:"name"`
	Href     string `json:"href"     yaml:"href"`
}

// ChangeFile is a file touched by a change.
type ChangeFile struct {
	BeforeRevision string `json:"before-revision" yaml:"before-revision"`
	AfterRevision  string `json:"after-revision"  yaml:"after-revision"`
	ChangeType     string `json:"changeType"      yaml:"changeType"`
	File           string `json:"file"            yaml:"file"`
	RelativeFile   string `json:"relative-file"   yaml:"relative-file"`
}

// ChangeFiles is the counted list of files in a change.
type ChangeFiles struct {
	Count int          `json:"count" yaml:"count"`
	File  []ChangeFile `json:"file"  yaml:"file"`
}

// ChangeMetadata is the full record of a single change.
type ChangeMetadata struct {
	Change `yaml:",inline"`

	Comment         string          `json:"comment"         yaml:"comment"`
	User            *User           `json:"user,omitempty"  yaml:"user,omitempty"`
	Type            string          `json:"type"            yaml:"type"`
	Files           ChangeFiles     `json:"files"           yaml:"files"`
	VcsRootInstance VcsRootInstance `json:"vcsRootInstance" yaml:"vcsRootInstance"`
}

// ProjectRef is the project summary embedded in a build configuration.
type ProjectRef struct {
	ID              string `json:"id"              yaml:"id"`
	Name            string `json:"name"            yaml:"name"`
	ParentProjectID string `json:"parentProjectId" yaml:"parentProjectId"`
	Href            string `json:"href"            yaml:"href"`
	WebURL          string `json:"webUrl"          yaml:"webUrl"`
}

// BuildTypeTemplates lists the templates a build configuration inherits.
type BuildTypeTemplates struct {
	Count     int                      `json:"count"               yaml:"count"`
	BuildType []map[string]interface{} `json:"buildType,omitempty" yaml:"buildType,omitempty"`
}

// VcsRootEntries lists the VCS roots attached to a build configuration.
type VcsRootEntries struct {
	Count        int                      `json:"count"                    yaml:"count"`
	VcsRootEntry []map[string]interface{} `json:"vcs-root-entry,omitempty" yaml:"vcs-root-entry,omitempty"`
}

// Steps lists the build steps of a build configuration.
type Steps struct {
	Count int                      `json:"count"          yaml:"count"`
	Step  []map[string]interface{} `json:"step,omitempty" yaml:"step,omitempty"`
}

// SnapshotDependencies lists snapshot dependency definitions.
type SnapshotDependencies struct {
	Count              int                      `json:"count"                         yaml:"count"`
	SnapshotDependency []map[string]interface{} `json:"snapshot-dependency,omitempty" yaml:"snapshot-dependency,omitempty"`
}

// ArtifactDependencies lists artifact dependency definitions.
type ArtifactDependencies struct {
	Count              int                      `json:"count"                         yaml:"count"`
	ArtifactDependency []map[string]interface{} `json:"artifact-dependency,omitempty" yaml:"artifact-dependency,omitempty"`
}

// BuildType is a build configuration.
type BuildType struct {
	ID                   string               `json:"id"                    yaml:"id"`
	Name                 string               `json:"name"                  yaml:"name"`
	ProjectName          string               `json:"projectName"           yaml:"projectName"`
	ProjectID            string               `json:"projectId"             yaml:"projectId"`
	Href                 string               `json:"href"                  yaml:"href"`
	WebURL               string               `json:"webUrl"                yaml:"webUrl"`
	Project              ProjectRef           `json:"project"               yaml:"project"`
	Templates            BuildTypeTemplates   `json:"templates"             yaml:"templates"`
	VcsRootEntries       VcsRootEntries       `json:"vcs-root-entries"      yaml:"vcs-root-entries"`
	Settings             Properties           `json:"settings"              yaml:"settings"`
	Parameters           Properties           `json:"parameters"            yaml:"parameters"`
	Steps                Steps                `json:"steps"                 yaml:"steps"`
	Features             CountedRef           `json:"features"              yaml:"features"`
	Triggers             CountedRef           `json:"triggers"              yaml:"triggers"`
	SnapshotDependencies SnapshotDependencies `json:"snapshot-dependencies" yaml:"snapshot-dependencies"`
	ArtifactDependencies ArtifactDependencies `json:"artifact-dependencies" yaml:"artifact-dependencies"`
	Builds               HrefRef              `json:"builds"                yaml:"builds"`
	Investigations       HrefRef              `json:"investigations"        yaml:"investigations"`
	CompatibleAgents     HrefRef              `json:"compatibleAgents"      yaml:"compatibleAgents"`
}

// ServerInfo is the /server response.
type ServerInfo struct {
	Version      string `json:"version"      yaml:"version"`
	VersionMajor int    `json:"versionMajor" yaml:"versionMajor"`
	VersionMinor int    `json:"versionMinor" yaml:"versionMinor"`
	BuildNumber  string `json:"buildNumber"  yaml:"buildNumber"`
	BuildDate    string `json:"buildDate"    yaml:"buildDate"`
	InternalID   string `json:"internalId"   yaml:"internalId"`
	Role         string `json:"role"         yaml:"role"`
	WebURL       string `json:"webUrl"       yaml:"webUrl"`
}
