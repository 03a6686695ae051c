package entries

import sitecontent "github.com/albayanlaw/go-siteedit/content"

type (
	Entry = sitecontent.Entry
	Value = sitecontent.Value
)
