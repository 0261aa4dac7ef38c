package main

//go-build: CGO_ENABLED=0

import (
	"flag"

	"github.com/golang/glog"

	fx "github.com/robotalks/trackdrive/pkg/framework"
	"github.com/robotalks/trackdrive/pkg/trackd"
)

func init() {
	trackd.SetupFlags()
}

func main() {
	flag.Parse()

	svc, err := trackd.NewConfig().NewService()
	if err != nil {
		glog.Exitf("trackd: %v", err)
	}
	if err := fx.NewRunner().HandleSignals().Go(svc).Wait(); err != nil && err != fx.ErrForcedExit {
		glog.Exitf("trackd: %v", err)
	}
}
