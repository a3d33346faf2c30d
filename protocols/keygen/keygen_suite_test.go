package keygen_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestKeygenSuite(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "keygen suite")
}
