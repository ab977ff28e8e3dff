package gnosis

import "context"

// Copy deep-copies a root instance by serializing it and reconstructing
// the result. Sharing and cycle structure is preserved in the copy, and
// the copy shares no mutable state with the original.
//
// The instance's class must be registered, exactly as for Load.
func Copy(ctx context.Context, root any, opts ...Option) (any, error) {
	data, err := Marshal(ctx, root, opts...)
	if err != nil {
		return nil, err
	}
	return Unmarshal(ctx, data, opts...)
}
