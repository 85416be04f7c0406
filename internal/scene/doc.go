// Package scene parses and renders the text scene files used by the
// textdemo command.
//
// A scene file declares the canvas size and a list of items:
//
//	scene 480 160 {
//	    background #F4F4F4
//	    font "fonts/Extra.ttf"
//	    box 10 10 460 140 { fill #FFFFFF; border #333333; width 2; radius 8 }
//	    translate 20 20
//	    text 0 0 440 120 {
//	        face "Go" size 24 color #202020
//	        align center
//	        shadow #80000000
//	        "Hello, World!"
//	        span 7 5 { bold; color #C00000 }
//	        inline 5 1 12 12 #3366FF
//	    }
//	    clip 0 0 100 40 { text 0 0 400 40 { "clipped" } }
//	}
//
// Items are drawn in order. Transforms (translate, scale, rotate, reset)
// apply to the items that follow them; a clip block restores the
// transform when it ends. Span and inline ranges count UTF-16 code units.
package scene
