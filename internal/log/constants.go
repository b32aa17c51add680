package log

const (
	Count    = "count"
	Dir      = "dir"
	Duration = "duration"
	Entry    = "entry"
	Error    = "error"
	Filename = "filename"
	Name     = "name"
	Path     = "path"
	Pattern  = "pattern"
	URL      = "url"
)
