package listing

import "github.com/phobologic/asmsift/internal/model"

// propagate is pass 3. Each queued label's data block runs until the next
// instruction or non-data directive; every data directive in it is shown
// and scanned for further labels. A label is queued at most once, so the
// pass ends after at most one walk per line.
func (c *Context) propagate() error {
	for {
		idx, ok := c.queue.Pop()
		if !ok {
			return nil
		}
		c.dequeues++

		for i := int(idx); i < len(c.lines); i++ {
			line := &c.lines[i]
			if line.Kind == model.Instruction || line.Kind == model.Directive {
				break
			}
			if line.Kind == model.Data {
				line.Flags |= model.Show
				if err := c.scanReferences(line); err != nil {
					return err
				}
			}
		}
	}
}
