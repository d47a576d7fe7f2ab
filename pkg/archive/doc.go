// Package archive compresses, encrypts and files away paths.
//
// Compress and Extract handle gzip-compressed tarballs. Compress runs
// inside the target's parent directory so entries are stored under the
// target's base name. An Encrypter wraps a public-key tool: GPG shells out
// to the gpg binary, OpenPGP does the same work in process from keyring
// files. CryptDir chains the two and deletes each consumed input.
// DatedArchiver stores a tarball of a path under dest/YYYY/MM/DD.
package archive
