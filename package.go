// Pnginfo reads the generation metadata that Stable Diffusion front ends embed in PNG images,
// compares it field by field between two images and walks folders of images by prompt. The
// metadata package parses A1111 parameter text and ComfyUI prompt graphs, source reads it out of
// PNG text chunks, differ compares two images and navigator steps through folders. viewer ties
// them together for an interactive front end and cmd/pnginfo exposes them on the command line.
package pnginfo
