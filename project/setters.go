package project

// UpdateSetter is a function that updates a project field.
type UpdateSetter func(*Project) error

// SetName returns an UpdateSetter that sets the project's name.
func SetName(name string) UpdateSetter {
	return func(p *Project) error {
		if name == "" {
			return ErrInvalidProjectName
		}
		p.Name = name
		return nil
	}
}

// SetURL returns an UpdateSetter that sets the project's URL.
func SetURL(url string) UpdateSetter {
	return func(p *Project) error {
		if url == "" {
			return ErrInvalidProjectURL
		}
		p.URL = url
		return nil
	}
}

// SetDescription returns an UpdateSetter that sets the project's description.
func SetDescription(description string) UpdateSetter {
	return func(p *Project) error {
		p.Description = description
		return nil
	}
}
