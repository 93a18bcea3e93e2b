// Package catalog serves the bundled server catalog over HTTP, in the shape
// read back by catalog.HTTPSource:
//
//	GET /statblocks/      listing index
//	GET /statblocks/:id   one stat block
//	GET /spells/          listing index
//	GET /spells/:id       one spell
package catalog
