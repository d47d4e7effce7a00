// Package walker enumerates the documentation files under a directory.
//
// Walk performs a depth-first descent with an explicit stack of directory
// frames instead of recursion. Each frame keeps the entries of one
// directory and a cursor, so a subdirectory is fully visited before its
// next sibling, exactly as a recursive descent would do.
//
// Symbolic links are never followed and never visited. Matching files are
// passed to a Handler one at a time; the walker waits for the handler to
// return before it looks at the next entry.
//
// # Usage
//
//	err := walker.Walk(ctx, "docs", walker.HandlerFunc(
//	    func(ctx context.Context, doc model.Document) error {
//	        fmt.Println(doc.Path)
//	        return nil
//	    }))
package walker
