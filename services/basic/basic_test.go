package basic_test

import (
	"context"
	"testing"

	"go.viam.com/test"
	"google.golang.org/grpc"

	"go.hpp.dev/manipulation/logging"
	"go.hpp.dev/manipulation/services/basic"
	"go.hpp.dev/manipulation/testutils"
	"go.hpp.dev/manipulation/testutils/inject"
)

func TestSetPassiveDofs(t *testing.T) {
	var gotName string
	var gotJoints []string
	injectSvc := &inject.BasicService{
		SetPassiveDofsFunc: func(ctx context.Context, name string, joints []string) error {
			gotName, gotJoints = name, joints
			return nil
		},
	}
	network := testutils.NewBufNetwork()
	target := network.Serve(t, "basic", func(s *grpc.Server) {
		basic.RegisterServer(s, injectSvc)
	})
	conn, err := grpc.NewClient(target, network.DialOption(), testutils.InsecureCredentials())
	test.That(t, err, test.ShouldBeNil)
	defer conn.Close()

	c := basic.NewClientFromConn(conn, logging.NewTestLogger(t))
	err = c.SetPassiveDofs(context.Background(), "grasp_passive", []string{"wrist_1", "wrist_2"})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, gotName, test.ShouldEqual, "grasp_passive")
	test.That(t, gotJoints, test.ShouldResemble, []string{"wrist_1", "wrist_2"})
}
