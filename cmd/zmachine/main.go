package main

import (
	"go.brendoncarroll.net/star"

	"github.com/DustinCampbell/ZDebug-sub001/zcmd"
)

func main() {
	star.Main(zcmd.Root())
}
