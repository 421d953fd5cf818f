package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"auctionhouse/internal/api/handlers"
	"auctionhouse/internal/domain"

	"github.com/gorilla/websocket"
)

// Interactive menu client for the auction server. Issues the three
// operations over HTTP and can subscribe to the broadcast stream.
type client struct {
	serverAddr string
	httpClient *http.Client
	reader     *bufio.Reader
}

func main() {
	serverAddr := flag.String("server", "localhost:8080", "auction server host:port")
	flag.Parse()

	c := &client{
		serverAddr: *serverAddr,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		reader:     bufio.NewReader(os.Stdin),
	}

	for {
		fmt.Println("Choose an action:")
		fmt.Println("1. Initiate Auction")
		fmt.Println("2. Place Bid")
		fmt.Println("3. Conclude Auction")
		fmt.Println("4. Subscribe to Broadcasts")
		fmt.Println("5. Exit")

		choice := c.readLine("")
		switch choice {
		case "1":
			c.initiateAuction()
		case "2":
			c.placeBid()
		case "3":
			c.concludeAuction()
		case "4":
			c.subscribeBroadcasts()
		case "5":
			fmt.Println("Bye.")
			return
		default:
			fmt.Println("Invalid choice. Try again...")
		}
	}
}

func (c *client) initiateAuction() {
	fmt.Println("Enter auction information:")
	auctionID := c.readLine("Auction ID: ")
	itemName := c.readLine("Item Name: ")
	startingPrice := c.readFloat("Starting Price: ")

	req := handlers.InitiateAuctionRequest{
		AuctionID:     auctionID,
		ItemName:      itemName,
		StartingPrice: startingPrice,
	}

	var resp handlers.BoolResponse
	if err := c.post("/api/v1/auctions", req, &resp); err != nil {
		fmt.Printf("Request failed: %v\n", err)
		return
	}

	fmt.Printf("Auction initiated: %v\n", resp.Success)
}

func (c *client) placeBid() {
	fmt.Println("Enter bid information:")
	auctionID := c.readLine("Auction ID: ")
	bidderID := c.readLine("Bidder ID: ")
	bidAmount := c.readFloat("Bid Amount: ")

	req := handlers.PlaceBidRequest{
		BidderID:  bidderID,
		BidAmount: bidAmount,
	}

	var resp handlers.BoolResponse
	path := fmt.Sprintf("/api/v1/auctions/%s/bids", url.PathEscape(auctionID))
	if err := c.post(path, req, &resp); err != nil {
		fmt.Printf("Request failed: %v\n", err)
		return
	}

	fmt.Printf("Bid placed: %v\n", resp.Success)
}

func (c *client) concludeAuction() {
	auctionID := c.readLine("Enter the Auction ID to conclude: ")

	var result domain.AuctionResult
	path := fmt.Sprintf("/api/v1/auctions/%s/conclude", url.PathEscape(auctionID))
	if err := c.post(path, nil, &result); err != nil {
		fmt.Printf("Request failed: %v\n", err)
		return
	}

	fmt.Printf("Auction concluded. Winner: %s with winning bid %v\n", result.WinnerID, result.WinningBid)
}

// subscribeBroadcasts opens the long-lived observer stream and prints every
// notification until the server closes the connection or the process exits.
func (c *client) subscribeBroadcasts() {
	u := url.URL{Scheme: "ws", Host: c.serverAddr, Path: "/ws/broadcasts"}

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		fmt.Printf("Failed to subscribe: %v\n", err)
		return
	}

	fmt.Println("Subscribed to broadcasts.")

	go func() {
		defer conn.Close()
		for {
			var msg domain.BroadcastMessage
			if err := conn.ReadJSON(&msg); err != nil {
				fmt.Println("Broadcast stream closed.")
				return
			}
			fmt.Printf(">> %s\n", msg.Message)
		}
	}()
}

func (c *client) post(path string, body interface{}, out interface{}) error {
	var payload bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&payload).Encode(body); err != nil {
			return err
		}
	}

	resp, err := c.httpClient.Post("http://"+c.serverAddr+path, "application/json", &payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *client) readLine(prompt string) string {
	if prompt != "" {
		fmt.Print(prompt)
	}
	line, err := c.reader.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}

func (c *client) readFloat(prompt string) float64 {
	for {
		raw := c.readLine(prompt)
		value, err := strconv.ParseFloat(raw, 64)
		if err == nil {
			return value
		}
		fmt.Println("Invalid input. Please enter a valid number:")
	}
}
