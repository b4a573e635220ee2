package option

// Options configures fileset matching shared by the alphabetize and lint
// tasks.
type Options struct {

	// Exclusions contains patterns of files/directories to exclude
	Exclusions []string

	// Inclusions contains patterns of files/directories to include
	Inclusions []string

	// MaxFileSize is the maximum size of files to process in bytes
	MaxFileSize int
}

// NewOptions creates a new Options instance with default values
func NewOptions(opts ...Option) *Options {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}
	if options.Exclusions == nil {
		options.Exclusions = getDefaultPatterns()
	}
	return options
}

// Option is a function that modifies Options
type Option func(*Options)

// WithExclusionPatterns sets exclusion patterns
func WithExclusionPatterns(patterns ...string) Option {
	return func(o *Options) {
		o.Exclusions = append(o.Exclusions, patterns...)
	}
}

// WithInclusionPatterns adds patterns to include
func WithInclusionPatterns(patterns ...string) Option {
	return func(o *Options) {
		o.Inclusions = append(o.Inclusions, patterns...)
	}
}

// WithMaxFileSize sets the maximum matchable file size
func WithMaxFileSize(size int) Option {
	return func(o *Options) {
		o.MaxFileSize = size
	}
}

// getDefaultPatterns returns paths a build fileset never wants to touch
func getDefaultPatterns() []string {
	return []string{
		// Directories
		".git/",
		".svn/",
		".vs/",
		"bin/",
		"obj/",
		"dist/",
		"build/",
		"node_modules/",
		"vendor/",

		// Files
		".DS_Store",
		"*.bak",
		"*.tmp",
		"*.swp",
		"*.lock",
		"*.log",
		"*.dll",
		"*.exe",
	}
}
