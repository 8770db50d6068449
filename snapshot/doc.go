// Package snapshot serializes the logical contents of a bucketvec.Vec.
//
// A snapshot stores elements in push order and never records segment
// boundaries, so a snapshot written from a Vec with one growth policy can be
// loaded into a Vec with any other.
//
// # Format
//
// All integers are little endian or unsigned varints (uv).
//
//	header := "BVEC" | version u8 | compression u8 | len(codec) u8 | codec
//	          | count uv | blockSize uv
//	block  := rawLen uv | storedLen uv | crc32c u32 | stored
//
// Every block holds blockSize consecutive elements (the last one may hold
// fewer), marshalled as one array by the codec named in the header and then
// compressed. storedLen 0 means the block did not compress and stored holds
// rawLen raw bytes. The checksum covers the stored bytes.
//
// # Usage
//
//	v := bucketvec.MustNew[string]()
//	v.Append("a", "b", "c")
//
//	store := blobstore.NewLocalStore("/var/lib/app")
//	_, err := snapshot.Save(ctx, store, "ids.bvec", v,
//	    snapshot.WithCompression(snapshot.CompressionZSTD))
//
//	restored := bucketvec.MustNew[string](bucketvec.WithGrowthRate(1.5))
//	_, err = snapshot.Load(ctx, store, "ids.bvec", restored)
//
// Blocks are marshalled and compressed in parallel (see WithConcurrency);
// their order in the output is always the element order.
package snapshot
