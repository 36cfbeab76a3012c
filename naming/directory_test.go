package naming_test

import (
	"context"
	"testing"

	"go.viam.com/test"
	"google.golang.org/grpc"

	"go.hpp.dev/manipulation/logging"
	"go.hpp.dev/manipulation/naming"
	"go.hpp.dev/manipulation/testutils"
)

func TestStaticDirectory(t *testing.T) {
	ctx := context.Background()
	dir, err := naming.NewStaticDirectory(map[string]naming.ObjectRef{
		"hpp.plannerContext/hpp.manipulation": {Address: "localhost:13331", TypeID: "manipulation"},
	})
	test.That(t, err, test.ShouldBeNil)

	ref, err := dir.Resolve(ctx, naming.ManipulationName)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ref.Address, test.ShouldEqual, "localhost:13331")
	test.That(t, ref.Key, test.ShouldNotBeEmpty)

	_, err = dir.Resolve(ctx, naming.BasicName)
	test.That(t, naming.IsNotFoundError(err), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "hpp.plannerContext/hpp.basic")

	_, err = dir.Bind(ctx, naming.ManipulationName, naming.ObjectRef{Address: "elsewhere"})
	var bound *naming.AlreadyBoundError
	test.That(t, err, test.ShouldHaveSameTypeAs, bound)

	rebound, err := dir.Rebind(ctx, naming.ManipulationName, naming.ObjectRef{Address: "elsewhere"})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, rebound.Key, test.ShouldNotEqual, ref.Key)

	_, err = dir.Bind(ctx, naming.BasicName, naming.ObjectRef{})
	test.That(t, err, test.ShouldNotBeNil)

	_, err = dir.Bind(ctx, naming.BasicName, naming.ObjectRef{Address: "basic", TypeID: "basic"})
	test.That(t, err, test.ShouldBeNil)

	bindings, err := dir.List(ctx, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, bindings, test.ShouldHaveLength, 2)
	test.That(t, bindings[0].Name.String(), test.ShouldEqual, "hpp.plannerContext/hpp.basic")

	bindings, err = dir.List(ctx, naming.ManipulationName)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, bindings, test.ShouldHaveLength, 1)

	test.That(t, dir.Unbind(ctx, naming.BasicName), test.ShouldBeNil)
	test.That(t, naming.IsNotFoundError(dir.Unbind(ctx, naming.BasicName)), test.ShouldBeTrue)

	_, err = naming.NewStaticDirectory(map[string]naming.ObjectRef{"": {Address: "x"}})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestClientServer(t *testing.T) {
	ctx := context.Background()
	logger := logging.NewTestLogger(t)
	backing, err := naming.NewStaticDirectory(nil)
	test.That(t, err, test.ShouldBeNil)

	network := testutils.NewBufNetwork()
	target := network.Serve(t, "names", func(s *grpc.Server) {
		naming.RegisterServer(s, backing)
	})
	conn, err := grpc.NewClient(target, network.DialOption(), testutils.InsecureCredentials())
	test.That(t, err, test.ShouldBeNil)
	defer conn.Close()

	client := naming.NewClientFromConn(conn, logger)

	t.Run("not found", func(t *testing.T) {
		_, err := client.Resolve(ctx, naming.ManipulationName)
		test.That(t, naming.IsNotFoundError(err), test.ShouldBeTrue)
	})

	t.Run("bind and resolve", func(t *testing.T) {
		bound, err := client.Bind(ctx, naming.ManipulationName, naming.ObjectRef{
			Address: testutils.Target("planner"),
			TypeID:  "hpp.manipulation.v1.Manipulation",
		})
		test.That(t, err, test.ShouldBeNil)
		test.That(t, bound.Key, test.ShouldNotBeEmpty)

		ref, err := client.Resolve(ctx, naming.ManipulationName)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, ref, test.ShouldResemble, bound)

		_, err = client.Bind(ctx, naming.ManipulationName, naming.ObjectRef{Address: "other"})
		var already *naming.AlreadyBoundError
		test.That(t, err, test.ShouldHaveSameTypeAs, already)

		_, err = client.Rebind(ctx, naming.ManipulationName, naming.ObjectRef{Address: "other"})
		test.That(t, err, test.ShouldBeNil)
	})

	t.Run("list", func(t *testing.T) {
		bindings, err := client.List(ctx, nil)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, bindings, test.ShouldHaveLength, 1)
		test.That(t, bindings[0].Name.Equal(naming.ManipulationName), test.ShouldBeTrue)
		test.That(t, bindings[0].Ref.Address, test.ShouldEqual, "other")
	})

	t.Run("unbind", func(t *testing.T) {
		test.That(t, client.Unbind(ctx, naming.ManipulationName), test.ShouldBeNil)
		test.That(t, naming.IsNotFoundError(client.Unbind(ctx, naming.ManipulationName)), test.ShouldBeTrue)
	})
}
