package builder

// IsEditMode reports whether structural editing is enabled.
func (c *Context) IsEditMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editMode
}

// ToggleEditMode flips edit mode and returns the new value.
func (c *Context) ToggleEditMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setEditMode(!c.editMode)
	return c.editMode
}

// EnterEditMode enables edit mode. Hidden steps become visible in the map.
func (c *Context) EnterEditMode() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setEditMode(true)
}

// ExitEditMode disables edit mode. ShowHidden keeps its current value.
func (c *Context) ExitEditMode() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setEditMode(false)
}

// ShowHidden reports whether hidden steps are listed in the structure map.
func (c *Context) ShowHidden() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.showHidden
}

// SetShowHidden toggles listing of hidden steps outside edit mode.
func (c *Context) SetShowHidden(show bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.showHidden = show
}

func (c *Context) setEditMode(enabled bool) {
	c.editMode = enabled
	if enabled {
		c.showHidden = true
	}
}
