// Package generatecode applies and removes tagged blocks of generated text
// inside hand-maintained source files.
//
// A block is wrapped in a pair of marker lines built from the file's line
// comment token:
//
//	# @generated begin react-native-maps
//	  pod 'react-native-google-maps', path: ...
//	# @generated end react-native-maps
//
// Merge inserts a block next to the first line matching an anchor and is a
// no-op when the tag is already present. Remove deletes the block again. The
// two are inverses: removing a freshly merged block restores the original
// document byte for byte.
package generatecode
