package eskip

import "testing"

func TestStaticDataClientLoadAll(t *testing.T) {
	rd, _ := ParseRouteDefinition("r1=http://svc,Path=/a")
	c := NewStaticDataClient([]*RouteDefinition{rd})
	routes, err := c.LoadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(routes) != 1 || routes[0].Id != "r1" {
		t.Fatalf("got %+v", routes)
	}
}

func TestStaticDataClientUpdatePublishesEvent(t *testing.T) {
	rd, _ := ParseRouteDefinition("r1=http://svc,Path=/a")
	c := NewStaticDataClient([]*RouteDefinition{rd})

	done := make(chan struct{})
	go func() {
		<-c.Events()
		close(done)
	}()

	rd2, _ := ParseRouteDefinition("r2=http://svc,Path=/b")
	c.Update([]*RouteDefinition{rd, rd2})

	<-done
	routes, _ := c.LoadAll()
	if len(routes) != 2 {
		t.Fatalf("want 2 routes after update, got %d", len(routes))
	}
}
