package adb

import (
	"reflect"
	"testing"
)

func TestParseDevices(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   []DeviceEntry
	}{
		{
			name: "tcp device",
			output: "List of devices attached\n" +
				"192.168.1.34:5555      device product:SwisscomBox23 model:IP2300 device:IP2300 transport_id:2\n",
			want: []DeviceEntry{
				{
					Serial:      "192.168.1.34:5555",
					State:       "device",
					Product:     "SwisscomBox23",
					Model:       "IP2300",
					Device:      "IP2300",
					TransportID: 2,
				},
			},
		},
		{
			name: "usb and tcp mixed",
			output: "List of devices attached\n" +
				"R58M12ABCDE            device usb:1-4 product:beyond1lte model:SM_G973F device:beyond1 transport_id:1\n" +
				"192.168.1.50:5555      offline product:oriole model:Pixel_6 device:oriole transport_id:3\n",
			want: []DeviceEntry{
				{
					Serial:      "R58M12ABCDE",
					State:       "device",
					Product:     "beyond1lte",
					Model:       "SM_G973F",
					Device:      "beyond1",
					TransportID: 1,
				},
				{
					Serial:      "192.168.1.50:5555",
					State:       "offline",
					Product:     "oriole",
					Model:       "Pixel_6",
					Device:      "oriole",
					TransportID: 3,
				},
			},
		},
		{
			name: "unauthorized device has no properties",
			output: "List of devices attached\n" +
				"192.168.1.60:5555      unauthorized transport_id:4\n",
			want: []DeviceEntry{
				{
					Serial:      "192.168.1.60:5555",
					State:       "unauthorized",
					TransportID: 4,
				},
			},
		},
		{
			name: "recovery and sideload rows",
			output: "List of devices attached\n" +
				"R58M12ABCDE            recovery usb:1-4 product:beyond1lte model:SM_G973F device:beyond1 transport_id:1\n" +
				"192.168.1.50:5555      sideload transport_id:3\n",
			want: []DeviceEntry{
				{
					Serial:      "R58M12ABCDE",
					State:       "recovery",
					Product:     "beyond1lte",
					Model:       "SM_G973F",
					Device:      "beyond1",
					TransportID: 1,
				},
				{
					Serial:      "192.168.1.50:5555",
					State:       "sideload",
					TransportID: 3,
				},
			},
		},
		{
			name: "no permissions row",
			output: "List of devices attached\n" +
				"0123456789ABCDEF       no permissions (missing udev rules?); see [http://developer.android.com/tools/device.html]\n",
			want: []DeviceEntry{
				{
					Serial: "0123456789ABCDEF",
					State:  "no permissions",
				},
			},
		},
		{
			name: "daemon banner skipped",
			output: "* daemon not running; starting now at tcp:5037\n" +
				"* daemon started successfully\n" +
				"List of devices attached\n",
			want: nil,
		},
		{
			name:   "empty output",
			output: "",
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDevices(tt.output)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseDevices() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDeviceEntryConnected(t *testing.T) {
	tests := []struct {
		state string
		want  bool
	}{
		{state: "device", want: true},
		{state: "offline", want: false},
		{state: "unauthorized", want: false},
		{state: "recovery", want: false},
		{state: "no permissions", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.state, func(t *testing.T) {
			d := DeviceEntry{State: tt.state}
			if got := d.Connected(); got != tt.want {
				t.Errorf("Connected() = %v, want %v", got, tt.want)
			}
		})
	}
}
