// Package hashing fingerprints the routes file and the protected route set.
//
//	r := hashing.NewReader(f)
//	content, _ := io.ReadAll(r)
//	fileSum := r.Sum()
//
//	set := hashing.NewSet()
//	set.Add(route.String())
//	digest := set.Digest()
package hashing
