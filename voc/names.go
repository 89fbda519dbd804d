package voc

// Common names shared by object graphs and tooling.
var (
	Kind     = New(Root(), "kind")
	Label    = New(Root(), "label")
	Content  = New(Root(), "content")
	Items    = New(Root(), "items")
	Parent   = New(Root(), "parent")
	Child    = New(Root(), "child")
	Children = New(Root(), "children")
	Before   = New(Root(), "before")
	After    = New(Root(), "after")
)
