package reconciler

import (
	"github.com/sirupsen/logrus"

	"github.com/thank243/cfddns6/common/ddns"
)

type Reconciler struct {
	client   ddns.Client
	zoneID   string
	pageSize int
	logger   *logrus.Entry
}

// Result lists the names touched by one run.
type Result struct {
	Created   []string
	Updated   []string
	Deleted   []string
	Unchanged []string
}
