package il

// Context is the editable body of one method during one compile pass.
type Context struct {
	Method MethodRef
	Body   *Body
}

// NewContext wraps body for method.
func NewContext(method MethodRef, body *Body) *Context {
	return &Context{Method: method, Body: body}
}

// Cursor returns a fresh cursor at the start of the body.
func (c *Context) Cursor() *Cursor {
	return NewCursor(c.Body)
}

// Manipulator edits a method body during a compile pass. Returning an error
// fails the compile.
type Manipulator func(ctx *Context) error
