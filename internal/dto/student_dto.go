package dto

// StudentForm carries the form fields posted by the create and edit pages.
// Name is required only by convention, so it deliberately has no validation
// tag. Image is the client-supplied fallback filename on create; CurrentImage
// is the equivalent hidden field on the edit form.
type StudentForm struct {
	Name         string `form:"name" validate:"max=255"`
	DateOfBirth  string `form:"dob" validate:"omitempty,datetime=2006-01-02"`
	Contact      string `form:"contact" validate:"max=255"`
	Image        string `form:"image" validate:"max=512"`
	CurrentImage string `form:"currentImage" validate:"max=512"`
}
